package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.corsMiddleware())
		r.Post("/login", s.handleAPILogin)
		r.Post("/logout", s.handleAPILogout)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAPIUser)
			r.Get("/cards", s.handleAPIListCards)
			r.Get("/cards/{id}", s.handleAPIGetCard)
			r.Put("/cards/{id}", s.handleAPIUpdateCard)
			r.Delete("/cards/{id}", s.handleAPIDeleteCard)
			r.Get("/cards/{id}/history", s.handleAPICardHistory)
			r.Post("/cards/{id}/review", s.handleAPIReviewCard)
			r.Get("/review", s.handleAPINextReview)
			r.Post("/upload", s.handleAPIUpload)
			r.Get("/hierarchy", s.handleAPIHierarchy)
			r.Get("/dashboard", s.handleAPIDashboard)
		})
	})

	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Post("/theme", s.handleToggleTheme)

	r.Group(func(r chi.Router) {
		r.Use(s.requirePageUser)
		r.Get("/", s.handleHome)
		r.Post("/logout", s.handleLogout)
		r.Post("/review/start", s.handleStartReview)
		r.Post("/review/reveal", s.handleRevealAnswer)
		r.Post("/review/{id}", s.handleSubmitReview)
		r.Post("/upload", s.handleUpload)
		r.Get("/cards/{id}/edit", s.handleEditCard)
		r.Post("/cards/{id}", s.handleUpdateCard)
		r.Post("/cards/{id}/delete", s.handleDeleteCard)
		r.Get("/hierarchy", s.handleHierarchy)
		r.Get("/dashboard", s.handleDashboard)
	})

	return r
}

// corsMiddleware allows the configured origins to call /api. With no
// origins configured the API is same-origin only.
func (s *Server) corsMiddleware() func(http.Handler) http.Handler {
	if len(s.CORSOrigins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.New(cors.Options{
		AllowedOrigins:   s.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Accept", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler
}
