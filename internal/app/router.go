// Package app assembles the HTTP handler from the configured server.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpserver "github.com/AdityaU3672/recruiterbook-api/internal/adapter/httpserver"
	"github.com/AdityaU3672/recruiterbook-api/internal/adapter/observability"
	"github.com/AdityaU3672/recruiterbook-api/internal/config"
)

// ParseOrigins splits a comma-separated origin list, trimming spaces.
// An empty list yields ["*"].
func ParseOrigins(s string) []string {
	out := make([]string, 0, 4)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter constructs the HTTP handler with all middlewares and routes.
func BuildRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.RequestID())
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	origins := ParseOrigins(cfg.CORSAllowOrigins)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: origins[0] != "*",
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", srv.ReadyzHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(api chi.Router) {
		api.Use(srv.Tokens.Authenticate)

		// public reads
		api.Get("/v1/recruiters", srv.SearchRecruitersHandler())
		api.Get("/v1/recruiters/featured", srv.FeaturedHandler())
		api.Get("/v1/recruiters/{id}", srv.GetRecruiterHandler())
		api.Get("/v1/recruiters/{id}/reviews", srv.RecruiterReviewsHandler())
		api.Get("/v1/reviews", srv.ListReviewsHandler())
		api.Get("/v1/companies", srv.ListCompaniesHandler())
		api.Get("/v1/companies/{name}", srv.GetCompanyHandler())
		api.Get("/v1/companies/{name}/reviews", srv.CompanyReviewsHandler())

		// mutating endpoints are rate limited per client IP
		api.Group(func(wr chi.Router) {
			wr.Use(httprate.LimitByIP(cfg.RateLimitPerMin, time.Minute))
			wr.Post("/v1/users", srv.SignInHandler())

			wr.Group(func(ur chi.Router) {
				ur.Use(httpserver.RequireUser)
				ur.Post("/v1/recruiters", srv.CreateRecruiterHandler())
				ur.Post("/v1/reviews", srv.CreateReviewHandler())
				ur.Put("/v1/reviews/{id}", srv.UpdateReviewHandler())
				ur.Delete("/v1/reviews/{id}", srv.DeleteReviewHandler())
				ur.Post("/v1/reviews/{id}/vote", srv.VoteHandler())
			})
			srv.MountAdmin(wr)
		})

		api.With(httpserver.RequireUser).Get("/v1/me", srv.MeHandler())
		api.With(httpserver.RequireUser).Get("/v1/votes", srv.MyVotesHandler())
	})

	return httpserver.SecurityHeaders(r)
}
