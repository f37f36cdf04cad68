package api

import (
	"net/http"
	"strconv"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
)

func (s *Server) handleAPILogin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		handleError(w, r, err)
		return
	}

	token, _, err := s.AuthService.Login(r.Context(), creds)
	if err != nil {
		handleError(w, r, err)
		return
	}
	s.setSessionCookie(w, token)
	writeJSON(w, r, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleAPILogout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPIListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.CardService.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleAPIGetCard(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, r, http.StatusOK, card)
}

// handleAPIUpdateCard replaces the mutable fields. A score in the body is
// ignored; only reviews change it.
func (s *Server) handleAPIUpdateCard(w http.ResponseWriter, r *http.Request) {
	id, err := cardIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var in models.CardInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}
	card, err := s.CardService.Update(r.Context(), id, in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleAPIDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := cardIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.CardService.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAPICardHistory(w http.ResponseWriter, r *http.Request) {
	id, err := cardIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := s.CardService.History(r.Context(), id, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if records == nil {
		records = []models.ReviewRecord{}
	}
	writeJSON(w, r, http.StatusOK, records)
}

func (s *Server) handleAPINextReview(w http.ResponseWriter, r *http.Request) {
	card, err := s.ReviewService.NextDue(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if card == nil {
		handleError(w, r, &errors.AppError{
			Code:    errors.ErrCodeNotFound,
			Message: "no cards due for review",
			Status:  http.StatusNotFound,
		})
		return
	}
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleAPIReviewCard(w http.ResponseWriter, r *http.Request) {
	id, err := cardIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	correct, err := parseCorrect(r.URL.Query().Get("correct"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.ReviewService.Review(r.Context(), id, correct)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).WithFields(map[string]any{
		"card_id": id,
		"correct": correct,
		"score":   card.Score,
	}).Info("card reviewed")
	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleAPIUpload(w http.ResponseWriter, r *http.Request) {
	n, err := s.importUpload(w, r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int{"imported": n})
}

// importUpload reads the multipart field "file" and imports it.
func (s *Server) importUpload(w http.ResponseWriter, r *http.Request) (int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.MaxUploadBytes); err != nil {
		return 0, errors.NewBadRequestError("invalid upload: " + err.Error())
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return 0, errors.NewBadRequestError("missing file field")
	}
	defer file.Close()

	logger.FromContext(r.Context()).Debug("importing upload: name=%s, size=%d", header.Filename, header.Size)
	return s.CardService.Import(r.Context(), file)
}

func (s *Server) handleAPIHierarchy(w http.ResponseWriter, r *http.Request) {
	h, err := s.StatsService.Hierarchy(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if h.Courses == nil {
		h.Courses = []models.CourseNode{}
	}
	writeJSON(w, r, http.StatusOK, h)
}

func (s *Server) handleAPIDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.StatsService.Dashboard(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}
