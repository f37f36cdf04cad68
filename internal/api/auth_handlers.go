package api

import (
	"net/http"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/models"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "pages/login.html", pageData{
		"next":     localRedirect(r.URL.Query().Get("next"), "/"),
		"username": "",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	next := localRedirect(r.FormValue("next"), "/")
	creds := models.Credentials{
		Username: r.FormValue("username"),
		Password: r.FormValue("password"),
	}

	token, _, err := s.AuthService.Login(r.Context(), creds)
	if err != nil {
		appErr := errors.As(err)
		if appErr.Status >= http.StatusInternalServerError {
			handleError(w, r, err)
			return
		}
		s.renderStatus(w, r, appErr.Status, "pages/login.html", pageData{
			"next":     next,
			"username": creds.Username,
			"error":    appErr.Message,
		})
		return
	}
	s.setSessionCookie(w, token)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
