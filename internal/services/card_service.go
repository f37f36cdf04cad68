package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/vytor/flashdeck/internal/aggregate"
	"github.com/vytor/flashdeck/internal/csvimport"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/validation"
)

// CardService handles card listing, editing and CSV import
type CardService interface {
	List(ctx context.Context, query string) ([]models.Card, error)
	Get(ctx context.Context, id int64) (*models.Card, error)
	Update(ctx context.Context, id int64, in models.CardInput) (*models.Card, error)
	Delete(ctx context.Context, id int64) error
	Import(ctx context.Context, r io.Reader) (int, error)
	History(ctx context.Context, id int64, limit int) ([]models.ReviewRecord, error)
}

type cardService struct {
	cards   repository.CardRepository
	reviews repository.ReviewRepository
	now     func() time.Time
}

// NewCardService creates a new CardService
func NewCardService(cards repository.CardRepository, reviews repository.ReviewRepository, opts ...Option) CardService {
	o := applyOptions(opts)
	return &cardService{cards: cards, reviews: reviews, now: o.now}
}

// List returns every card, narrowed by a case-insensitive text query when
// query is not empty.
func (s *cardService) List(ctx context.Context, query string) ([]models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing cards: query=%q", query)

	cards, err := s.cards.List(ctx)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return aggregate.Filter(cards, query), nil
}

func (s *cardService) Get(ctx context.Context, id int64) (*models.Card, error) {
	card, err := s.cards.Get(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", id)
	}
	return card, nil
}

// Update replaces the mutable fields of a card. Scheduling state is kept.
func (s *cardService) Update(ctx context.Context, id int64, in models.CardInput) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating card: id=%d", id)

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	ok, err := s.cards.UpdateContent(ctx, id, in, s.now())
	if err != nil {
		log.Error("failed to update card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if !ok {
		return nil, errors.NewNotFoundError("card", id)
	}
	log.Info("card updated: id=%d", id)
	return s.Get(ctx, id)
}

func (s *cardService) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	ok, err := s.cards.Delete(ctx, id)
	if err != nil {
		log.Error("failed to delete card: %v", err)
		return errors.NewInternalError(err)
	}
	if !ok {
		return errors.NewNotFoundError("card", id)
	}
	log.Info("card deleted: id=%d", id)
	return nil
}

// Import parses a CSV file and inserts every card in one transaction.
// Imported cards are due immediately.
func (s *cardService) Import(ctx context.Context, r io.Reader) (int, error) {
	log := logger.FromContext(ctx)

	cards, err := csvimport.Parse(r)
	if err != nil {
		var rowErr *csvimport.RowError
		if stderrors.As(err, &rowErr) {
			return 0, errors.NewValidationError("file", rowErr.Error())
		}
		return 0, errors.NewBadRequestError("could not read CSV: " + err.Error())
	}
	if len(cards) == 0 {
		return 0, errors.NewValidationError("file", "no cards found")
	}
	for i, c := range cards {
		if err := validation.Struct(c.CardInput); err != nil {
			appErr := errors.As(err)
			appErr.Message = fmt.Sprintf("card %d: %s", i+1, appErr.Message)
			return 0, appErr
		}
	}

	ids, err := s.cards.InsertBatch(ctx, cards, s.now())
	if err != nil {
		log.Error("failed to import cards: %v", err)
		return 0, errors.NewInternalError(err)
	}
	log.Info("imported %d cards", len(ids))
	return len(ids), nil
}

// History returns the most recent review outcomes of a card.
func (s *cardService) History(ctx context.Context, id int64, limit int) ([]models.ReviewRecord, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	records, err := s.reviews.History(ctx, id, limit)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load review history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return records, nil
}
