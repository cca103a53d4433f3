package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SetFeaturedHandler replaces the featured recruiter list (admin).
func (s *Server) SetFeaturedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setFeaturedRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := s.Recruiters.SetFeatured(r.Context(), req.RecruiterIDs); err != nil {
			writeError(w, r, err, nil)
			return
		}
		LoggerFrom(r).Info("featured recruiters replaced", "count", len(req.RecruiterIDs))
		recs, err := s.Recruiters.Featured(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, toRecruiters(recs))
	}
}

// DeleteCompanyHandler removes a company without recruiters (admin).
func (s *Server) DeleteCompanyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if err := s.Companies.Delete(r.Context(), name); err != nil {
			writeError(w, r, err, nil)
			return
		}
		LoggerFrom(r).Info("company deleted", "company", name)
		w.WriteHeader(http.StatusNoContent)
	}
}

// MountAdmin registers the admin-only API routes behind Basic auth.
func (s *Server) MountAdmin(r chi.Router) {
	r.Group(func(ar chi.Router) {
		ar.Use(s.Admin.Require)
		ar.Put("/v1/recruiters/featured", s.SetFeaturedHandler())
		ar.Delete("/v1/companies/{name}", s.DeleteCompanyHandler())
	})
}
