package api

import (
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/session"
)

// notices maps the notice query parameter to the banner shown on the home page.
var notices = map[string]string{
	"imported": "Import successful",
	"updated":  "Card updated",
	"deleted":  "Card deleted",
	"nodue":    "No cards are due for review",
	"done":     "Review finished, nothing else is due",
}

func homeURL(params url.Values) string {
	if len(params) == 0 {
		return "/"
	}
	return "/?" + params.Encode()
}

func reviewURL(card *models.Card, revealed bool) string {
	if card == nil {
		return homeURL(url.Values{"notice": {"done"}})
	}
	v := url.Values{"card": {strconv.FormatInt(card.ID, 10)}}
	if revealed {
		v.Set("reveal", "1")
	}
	return homeURL(v)
}

func errorURL(err error) string {
	return homeURL(url.Values{"error": {errors.As(err).Message}})
}

// restoreSession rebuilds the review session carried in the form or query.
func (s *Server) restoreSession(r *http.Request, revealed bool) (*session.Session, error) {
	idStr := r.FormValue("card")
	if idStr == "" {
		return session.New(s.ReviewService), nil
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, errors.NewBadRequestError("invalid card ID")
	}
	card, err := s.CardService.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return session.Restore(s.ReviewService, card, revealed), nil
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	log.Debug("rendering home page")

	q := r.URL.Query()
	sess, err := s.restoreSession(r, q.Get("reveal") == "1")
	if err != nil {
		if !errors.IsNotFound(err) {
			handleError(w, r, err)
			return
		}
		log.Debug("review card no longer exists, starting idle")
		sess = session.New(s.ReviewService)
	}

	cards, err := s.CardService.List(ctx, q.Get("q"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	summary, err := s.StatsService.Summary(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}
	dueCount, err := s.ReviewService.CountDue(ctx)
	if err != nil {
		log.Warn("failed to count due cards: %v", err)
	}

	s.render(w, r, "pages/home.html", pageData{
		"summary":   summary,
		"due_count": dueCount,
		"cards":     cards,
		"query":     q.Get("q"),
		"state":     sess.State().String(),
		"card":      sess.Card(),
		"notice":    notices[q.Get("notice")],
		"count":     q.Get("n"),
		"error":     q.Get("error"),
	})
}

func (s *Server) handleStartReview(w http.ResponseWriter, r *http.Request) {
	sess := session.New(s.ReviewService)
	if err := sess.Start(r.Context()); err != nil {
		if stderrors.Is(err, session.ErrNoDueCard) {
			http.Redirect(w, r, homeURL(url.Values{"notice": {"nodue"}}), http.StatusSeeOther)
			return
		}
		handleError(w, r, err)
		return
	}
	http.Redirect(w, r, reviewURL(sess.Card(), false), http.StatusSeeOther)
}

func (s *Server) handleRevealAnswer(w http.ResponseWriter, r *http.Request) {
	sess, err := s.restoreSession(r, false)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := sess.Reveal(); err != nil {
		handleError(w, r, errors.NewBadRequestError(err.Error()))
		return
	}
	http.Redirect(w, r, reviewURL(sess.Card(), true), http.StatusSeeOther)
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	id, err := cardIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	correct, err := parseCorrect(r.FormValue("correct"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	card, err := s.CardService.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	sess := session.Restore(s.ReviewService, card, true)
	if err := sess.Submit(r.Context(), correct); err != nil {
		handleError(w, r, err)
		return
	}
	http.Redirect(w, r, reviewURL(sess.Card(), false), http.StatusSeeOther)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	n, err := s.importUpload(w, r)
	if err != nil {
		logger.FromContext(r.Context()).Warn("upload failed: %v", err)
		http.Redirect(w, r, errorURL(err), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, homeURL(url.Values{"notice": {"imported"}, "n": {strconv.Itoa(n)}}), http.StatusSeeOther)
}

func (s *Server) handleEditCard(w http.ResponseWriter, r *http.Request) {
	id, err := cardIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	card, err := s.CardService.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	history, err := s.CardService.History(r.Context(), id, 10)
	if err != nil {
		logger.FromContext(r.Context()).Warn("failed to load review history: %v", err)
	}
	s.render(w, r, "pages/edit.html", pageData{
		"card":    card,
		"input":   card.Input(),
		"history": history,
	})
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := cardIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	in := models.CardInput{
		Course:   r.FormValue("course"),
		Chapter:  r.FormValue("chapter"),
		Notion:   r.FormValue("notion"),
		Question: r.FormValue("question"),
		Answer:   r.FormValue("answer"),
	}

	if _, err := s.CardService.Update(r.Context(), id, in); err != nil {
		appErr := errors.As(err)
		if appErr.Code != errors.ErrCodeValidation {
			handleError(w, r, err)
			return
		}
		card, getErr := s.CardService.Get(r.Context(), id)
		if getErr != nil {
			handleError(w, r, getErr)
			return
		}
		s.renderStatus(w, r, http.StatusBadRequest, "pages/edit.html", pageData{
			"card":  card,
			"input": in,
			"error": appErr.Message,
		})
		return
	}
	http.Redirect(w, r, homeURL(url.Values{"notice": {"updated"}}), http.StatusSeeOther)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := cardIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.CardService.Delete(r.Context(), id); err != nil {
		http.Redirect(w, r, errorURL(err), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, homeURL(url.Values{"notice": {"deleted"}}), http.StatusSeeOther)
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	h, err := s.StatsService.Hierarchy(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.render(w, r, "pages/hierarchy.html", pageData{"hierarchy": h})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.StatsService.Dashboard(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.render(w, r, "pages/dashboard.html", pageData{"dashboard": d})
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme := "dark"
	if themeFromRequest(r) == "dark" {
		theme = "light"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookieName,
		Value:    theme,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   s.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, localRedirect(r.FormValue("next"), "/"), http.StatusSeeOther)
}
