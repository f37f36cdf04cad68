package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/session"
)

// ReviewService picks due cards and records review outcomes. It also
// satisfies session.Source so pages can drive a session in-process.
type ReviewService interface {
	session.Source
	NextDue(ctx context.Context) (*models.Card, error)
	Review(ctx context.Context, id int64, correct bool) (*models.Card, error)
	CountDue(ctx context.Context) (int, error)
}

type reviewService struct {
	cards repository.CardRepository
	now   func() time.Time
}

// NewReviewService creates a new ReviewService
func NewReviewService(cards repository.CardRepository, opts ...Option) ReviewService {
	o := applyOptions(opts)
	return &reviewService{cards: cards, now: o.now}
}

// NextDue returns the next card to review, or nil when nothing is due.
func (s *reviewService) NextDue(ctx context.Context) (*models.Card, error) {
	log := logger.FromContext(ctx)

	card, err := s.cards.NextDue(ctx, s.now())
	if err != nil {
		log.Error("failed to get next due card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		log.Debug("no cards due for review")
	}
	return card, nil
}

// Review applies one outcome to a card and returns the rescheduled card.
func (s *reviewService) Review(ctx context.Context, id int64, correct bool) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("reviewing card: id=%d, correct=%t", id, correct)

	card, err := s.cards.Get(ctx, id)
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", id)
	}

	now := s.now()
	updated := flashcard.ApplyOutcome(*card, correct, now)
	rec := models.ReviewRecord{
		CardID:      card.ID,
		Correct:     correct,
		ScoreBefore: card.Score,
		ScoreAfter:  updated.Score,
		ReviewedAt:  now.UTC(),
	}
	if err := s.cards.ApplyReview(ctx, updated, rec); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("card", id)
		}
		log.Error("failed to store review: %v", err)
		return nil, errors.NewInternalError(err)
	}
	updated.UpdatedAt = rec.ReviewedAt

	log.Debug("card rescheduled: id=%d, score=%d, due_at=%s", id, updated.Score, updated.DueAt.Format(time.RFC3339))
	return &updated, nil
}

func (s *reviewService) CountDue(ctx context.Context) (int, error) {
	n, err := s.cards.CountDue(ctx, s.now())
	if err != nil {
		logger.FromContext(ctx).Error("failed to count due cards: %v", err)
		return 0, errors.NewInternalError(err)
	}
	return n, nil
}

func (s *reviewService) NextReviewCard(ctx context.Context) (*models.Card, error) {
	card, err := s.NextDue(ctx)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, session.ErrNoDueCard
	}
	return card, nil
}

func (s *reviewService) SubmitReview(ctx context.Context, id int64, correct bool) error {
	_, err := s.Review(ctx, id, correct)
	return err
}
