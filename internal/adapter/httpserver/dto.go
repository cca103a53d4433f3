package httpserver

import (
	"time"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
	"github.com/AdityaU3672/recruiterbook-api/internal/usecase"
)

// signInRequest carries an assertion signed by the login gateway; identity
// fields are taken from its claims, never from the body.
type signInRequest struct {
	Assertion string `json:"assertion" validate:"required,max=4096"`
}

type createRecruiterRequest struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Company  string `json:"company" validate:"required,max=100"`
}

type ratingsRequest struct {
	Professionalism int    `json:"professionalism" validate:"required,min=1,max=5"`
	Responsiveness  int    `json:"responsiveness" validate:"required,min=1,max=5"`
	Helpfulness     int    `json:"helpfulness" validate:"required,min=1,max=5"`
	FinalStage      int    `json:"final_stage" validate:"required,min=1,max=5"`
	Text            string `json:"text" validate:"max=5000"`
}

func (r ratingsRequest) ratings() domain.Ratings {
	return domain.Ratings{
		Professionalism: r.Professionalism,
		Responsiveness:  r.Responsiveness,
		Helpfulness:     r.Helpfulness,
		FinalStage:      r.FinalStage,
	}
}

type createReviewRequest struct {
	RecruiterID string `json:"recruiter_id" validate:"required,uuid"`
	ratingsRequest
}

type updateReviewRequest struct {
	ratingsRequest
}

type voteRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

type setFeaturedRequest struct {
	RecruiterIDs []string `json:"recruiter_ids" validate:"max=50,dive,required,uuid"`
}

type userResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

type signInResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

type companyResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
}

func toCompany(c domain.Company) companyResponse {
	return companyResponse{ID: c.ID, Name: c.Name, Industry: c.Industry.String()}
}

type recruiterResponse struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	CompanyID       string    `json:"company_id"`
	Company         string    `json:"company"`
	Industry        string    `json:"industry"`
	Responsiveness  int       `json:"responsiveness"`
	Professionalism int       `json:"professionalism"`
	Helpfulness     int       `json:"helpfulness"`
	FinalStage      int       `json:"final_stage"`
	Verified        bool      `json:"verified"`
	Summary         string    `json:"summary"`
	CreatedAt       time.Time `json:"created_at"`
}

func toRecruiter(r domain.Recruiter) recruiterResponse {
	return recruiterResponse{
		ID:              r.ID,
		FullName:        r.FullName,
		CompanyID:       r.CompanyID,
		Company:         r.CompanyName,
		Industry:        r.Industry.String(),
		Responsiveness:  r.Averages.Responsiveness,
		Professionalism: r.Averages.Professionalism,
		Helpfulness:     r.Averages.Helpfulness,
		FinalStage:      r.Averages.FinalStage,
		Verified:        r.Verified,
		Summary:         r.Summary,
		CreatedAt:       r.CreatedAt,
	}
}

func toRecruiters(rs []domain.Recruiter) []recruiterResponse {
	out := make([]recruiterResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRecruiter(r))
	}
	return out
}

type matchResponse struct {
	recruiterResponse
	Score int `json:"score"`
}

func toMatches(ms []usecase.RecruiterMatch) []matchResponse {
	out := make([]matchResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, matchResponse{recruiterResponse: toRecruiter(m.Recruiter), Score: m.Score})
	}
	return out
}

type companyDetailResponse struct {
	companyResponse
	Recruiters []recruiterResponse `json:"recruiters"`
}

type reviewResponse struct {
	ID              int64     `json:"id"`
	UserID          string    `json:"user_id"`
	RecruiterID     string    `json:"recruiter_id"`
	Professionalism int       `json:"professionalism"`
	Responsiveness  int       `json:"responsiveness"`
	Helpfulness     int       `json:"helpfulness"`
	FinalStage      int       `json:"final_stage"`
	Text            string    `json:"text"`
	Upvotes         int       `json:"upvotes"`
	Downvotes       int       `json:"downvotes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toReview(r domain.Review) reviewResponse {
	return reviewResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		RecruiterID:     r.RecruiterID,
		Professionalism: r.Ratings.Professionalism,
		Responsiveness:  r.Ratings.Responsiveness,
		Helpfulness:     r.Ratings.Helpfulness,
		FinalStage:      r.Ratings.FinalStage,
		Text:            r.Text,
		Upvotes:         r.Upvotes,
		Downvotes:       r.Downvotes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toReviews(rs []domain.Review) []reviewResponse {
	out := make([]reviewResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, toReview(r))
	}
	return out
}

type voteResponse struct {
	ReviewID  int64  `json:"review_id"`
	Direction string `json:"direction"`
}

func toVotes(vs []domain.Vote) []voteResponse {
	out := make([]voteResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, voteResponse{ReviewID: v.ReviewID, Direction: v.Direction.String()})
	}
	return out
}
