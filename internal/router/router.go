package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/opsgate/opsgate/internal/middleware"
	"github.com/opsgate/opsgate/internal/middleware/metrics"
	"github.com/opsgate/opsgate/internal/setup"
)

// New creates and configures the chi router with all routes.
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// JSON API only, nothing to render
	backendCSP := "default-src 'none'; frame-ancestors 'none'"
	r.Use(middleware.SecurityHeadersWithCSP(deps.Config.Public.SecureCookies, backendCSP))

	h := deps.Handler
	authMw := deps.AuthMiddleware

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/ready", h.Ready)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/request_link", h.RequestLink)
			r.Post("/verify", h.Verify)
			r.Post("/logout", h.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMw.NeedAuth())
			r.Get("/me", h.Me)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMw.AdminOnly())

			r.Get("/users", h.Users)
			r.Put("/users/{id}/admin", h.SetUserAdmin)
			r.Delete("/users/{id}", h.DeleteUser)

			r.Get("/whitelist", h.WhitelistEntries)
			r.Post("/whitelist", h.AddWhitelistEntry)
			r.Delete("/whitelist/{id}", h.DeleteWhitelistEntry)
			r.Put("/whitelist/{id}/notes", h.UpdateWhitelistNotes)

			r.Post("/uploads", h.Upload)

			r.Route("/tools", func(r chi.Router) {
				r.Post("/extract", h.Extract)
				r.Post("/embed", h.Embed)
				r.Post("/rerank", h.Rerank)
				r.Post("/transcribe", h.Transcribe)
				r.Post("/image", h.GenerateImage)
			})
		})
	})

	// preflight requests must not 404
	r.MethodFunc(http.MethodOptions, "/*", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
