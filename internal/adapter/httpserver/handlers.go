package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/AdityaU3672/recruiterbook-api/internal/config"
	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	"github.com/AdityaU3672/recruiterbook-api/internal/usecase"
)

// Check is one named readiness probe.
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Server aggregates handler dependencies.
type Server struct {
	Cfg        config.Config
	Users      usecase.UserService
	Recruiters usecase.RecruiterService
	Reviews    usecase.ReviewService
	Votes      usecase.VoteService
	Companies  usecase.CompanyService
	Tokens     *TokenIssuer
	Admin      *AdminCredentials
	SignIn     *AssertionVerifier
	Checks     []Check
}

// SignInHandler resolves a verified external identity into a user and issues an access token.
func (s *Server) SignInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signInRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		ext, err := s.SignIn.Verify(req.Assertion)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if utf8.RuneCountInString(ext.FullName) > 100 || len(ext.ExternalID) > 255 {
			writeError(w, r, fmt.Errorf("%w: identity claims too long", domain.ErrInvalidArgument), nil)
			return
		}
		u, err := s.Users.SignIn(r.Context(), ext.FullName, ext.ExternalID)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		token, exp, err := s.Tokens.Issue(u)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     AccessTokenCookie,
			Value:    token,
			Path:     "/",
			Expires:  exp,
			HttpOnly: true,
			Secure:   !s.Cfg.IsDev() && !s.Cfg.IsTest(),
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, signInResponse{
			User:        userResponse{ID: u.ID, FullName: u.FullName},
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresAt:   exp,
		})
	}
}

// MeHandler returns the signed-in user.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := s.Users.Get(r.Context(), IdentityFrom(r.Context()).UserID)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, userResponse{ID: u.ID, FullName: u.FullName})
	}
}

// SearchRecruitersHandler fuzzy-matches recruiters by name, optionally boosting a company.
func (s *Server) SearchRecruitersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimSpace(r.URL.Query().Get("name"))
		if name == "" {
			writeError(w, r, fmt.Errorf("%w: name query parameter required", domain.ErrInvalidArgument), map[string]string{"name": "required"})
			return
		}
		matches, err := s.Recruiters.Search(r.Context(), name, r.URL.Query().Get("company"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, toMatches(matches))
	}
}

// CreateRecruiterHandler returns the recruiter for a name and company, creating both as needed.
func (s *Server) CreateRecruiterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRecruiterRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		rec, err := s.Recruiters.Create(r.Context(), IdentityFrom(r.Context()), req.FullName, req.Company)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, toRecruiter(rec))
	}
}

// GetRecruiterHandler returns one recruiter.
func (s *Server) GetRecruiterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := s.Recruiters.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, toRecruiter(rec))
	}
}

// FeaturedHandler lists the featured recruiters in display order.
func (s *Server) FeaturedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recs, err := s.Recruiters.Featured(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, toRecruiters(recs))
	}
}

// RecruiterReviewsHandler lists a recruiter's reviews.
func (s *Server) RecruiterReviewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviews, err := s.Reviews.ListByRecruiter(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, toReviews(reviews))
	}
}

// CreateReviewHandler runs the review write pipeline.
func (s *Server) CreateReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createReviewRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		rv, err := s.Reviews.Create(r.Context(), IdentityFrom(r.Context()), usecase.ReviewInput{
			RecruiterID: req.RecruiterID,
			Ratings:     req.ratings(),
			Text:        req.Text,
		})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusCreated, toReview(rv))
	}
}

// ListReviewsHandler lists every review.
func (s *Server) ListReviewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviews, err := s.Reviews.ListAll(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, toReviews(reviews))
	}
}

// UpdateReviewHandler edits the caller's own review.
func (s *Server) UpdateReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := reviewIDParam(r)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		var req updateReviewRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		rv, err := s.Reviews.Update(r.Context(), IdentityFrom(r.Context()), id, usecase.ReviewInput{
			Ratings: req.ratings(),
			Text:    req.Text,
		})
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, toReview(rv))
	}
}

// DeleteReviewHandler removes the caller's own review.
func (s *Server) DeleteReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := reviewIDParam(r)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		if err := s.Reviews.Delete(r.Context(), IdentityFrom(r.Context()), id); err != nil {
			writeError(w, r, err, nil)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// VoteHandler applies an up or down vote; repeating a vote removes it.
func (s *Server) VoteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := reviewIDParam(r)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		var req voteRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		d, err := domain.ParseVoteDirection(req.Direction)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: direction must be up or down", err), nil)
			return
		}
		rv, err := s.Votes.Apply(r.Context(), IdentityFrom(r.Context()), id, d)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, toReview(rv))
	}
}

// MyVotesHandler lists the caller's votes.
func (s *Server) MyVotesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		votes, err := s.Votes.ListForUser(r.Context(), IdentityFrom(r.Context()))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, toVotes(votes))
	}
}

// ListCompaniesHandler lists companies by name.
func (s *Server) ListCompaniesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companies, err := s.Companies.List(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		out := make([]companyResponse, 0, len(companies))
		for _, c := range companies {
			out = append(out, toCompany(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GetCompanyHandler returns a company with its recruiters.
func (s *Server) GetCompanyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := s.Companies.Get(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, companyDetailResponse{
			companyResponse: toCompany(d.Company),
			Recruiters:      toRecruiters(d.Recruiters),
		})
	}
}

// CompanyReviewsHandler lists the reviews of every recruiter at a company.
func (s *Server) CompanyReviewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reviews, err := s.Reviews.ListByCompany(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, toReviews(reviews))
	}
}

// ReadyzHandler runs every readiness check with a shared deadline.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		checks := make([]check, 0, len(s.Checks))
		st := http.StatusOK
		for _, c := range s.Checks {
			res := check{Name: c.Name, OK: true}
			if err := c.Fn(ctx); err != nil {
				res.OK, res.Details = false, err.Error()
				st = http.StatusServiceUnavailable
			}
			checks = append(checks, res)
		}
		writeJSON(w, st, map[string]any{"checks": checks})
	}
}
