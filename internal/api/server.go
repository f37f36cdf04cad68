package api

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/vytor/flashdeck/internal/auth"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/services"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	CardService   services.CardService
	ReviewService services.ReviewService
	StatsService  services.StatsService
	AuthService   services.AuthService
	DB            Pinger
	Templates     *template.Template

	CORSOrigins    []string
	MaxUploadBytes int64
	SessionTTL     time.Duration
	CookieSecure   bool
}

type pageData map[string]any

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	s.renderStatus(w, r, http.StatusOK, name, data)
}

func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}
	if _, ok := data["user"]; !ok {
		if u, ok := auth.UserFromContext(r.Context()); ok {
			data["user"] = u
		}
	}
	data["theme"] = themeFromRequest(r)

	log := logger.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
	}
}
