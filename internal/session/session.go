// Package session drives a single review: fetch a due card, reveal its
// answer, submit the outcome and move on to the next due card.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
)

// State is the phase of a review session.
type State int

const (
	Idle State = iota
	ShowingQuestion
	ShowingAnswer
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ShowingQuestion:
		return "showing_question"
	case ShowingAnswer:
		return "showing_answer"
	default:
		return "unknown"
	}
}

var (
	// ErrNoDueCard is returned by a Source when nothing is due for review.
	ErrNoDueCard = errors.New("no card due for review")
	// ErrActive is returned when starting a session that already holds a card.
	ErrActive = errors.New("review already in progress")
	// ErrNoCard is returned by Reveal and Submit while Idle.
	ErrNoCard = errors.New("no card loaded")
	// ErrAnswerHidden is returned when submitting before the answer is revealed.
	ErrAnswerHidden = errors.New("answer not revealed")
)

// Source supplies due cards and records outcomes.
type Source interface {
	NextReviewCard(ctx context.Context) (*models.Card, error)
	SubmitReview(ctx context.Context, id int64, correct bool) error
}

// Session is safe for concurrent use. Operations are serialized; a slow
// Source call blocks other callers until it returns.
type Session struct {
	src Source

	mu       sync.Mutex
	card     *models.Card
	revealed bool
}

func New(src Source) *Session {
	return &Session{src: src}
}

// Restore rebuilds a session from externally carried state. A nil card
// yields an Idle session.
func Restore(src Source, card *models.Card, revealed bool) *Session {
	s := New(src)
	if card != nil {
		c := *card
		s.card = &c
		s.revealed = revealed
	}
	return s
}

func (s *Session) stateLocked() State {
	switch {
	case s.card == nil:
		return Idle
	case s.revealed:
		return ShowingAnswer
	default:
		return ShowingQuestion
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Card returns a copy of the current card, or nil while Idle.
func (s *Session) Card() *models.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.card == nil {
		return nil
	}
	c := *s.card
	return &c
}

// Start loads the next due card. On failure the session stays Idle.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.card != nil {
		return ErrActive
	}
	return s.loadLocked(ctx)
}

func (s *Session) loadLocked(ctx context.Context) error {
	card, err := s.src.NextReviewCard(ctx)
	if err != nil {
		return err
	}
	if card == nil {
		return ErrNoDueCard
	}
	s.card = card
	s.revealed = false
	logger.FromContext(ctx).WithPrefix("session").Debug("loaded card: id=%d", card.ID)
	return nil
}

// Reveal shows the answer of the current card. Revealing twice is a no-op.
func (s *Session) Reveal() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.card == nil {
		return ErrNoCard
	}
	s.revealed = true
	return nil
}

// Submit sends the outcome for the current card, then tries to load the
// next due card. If sending fails the session is unchanged so the caller
// can retry. If no next card can be fetched the session ends Idle and
// Submit still succeeds.
func (s *Session) Submit(ctx context.Context, correct bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.stateLocked() {
	case Idle:
		return ErrNoCard
	case ShowingQuestion:
		return ErrAnswerHidden
	}

	if err := s.src.SubmitReview(ctx, s.card.ID, correct); err != nil {
		return err
	}
	s.card, s.revealed = nil, false

	if err := s.loadLocked(ctx); err != nil {
		logger.FromContext(ctx).WithPrefix("session").Debug("no next card: %v", err)
	}
	return nil
}
