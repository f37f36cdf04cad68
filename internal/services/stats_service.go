package services

import (
	"context"

	"github.com/vytor/flashdeck/internal/aggregate"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

// StatsService derives the hierarchy tree and dashboard from the card list
type StatsService interface {
	Hierarchy(ctx context.Context) (models.Hierarchy, error)
	Dashboard(ctx context.Context) (models.Dashboard, error)
	Summary(ctx context.Context) (models.Summary, error)
}

type statsService struct {
	cards repository.CardRepository
}

// NewStatsService creates a new StatsService
func NewStatsService(cards repository.CardRepository) StatsService {
	return &statsService{cards: cards}
}

func (s *statsService) all(ctx context.Context) ([]models.Card, error) {
	cards, err := s.cards.List(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *statsService) Hierarchy(ctx context.Context) (models.Hierarchy, error) {
	cards, err := s.all(ctx)
	if err != nil {
		return models.Hierarchy{}, err
	}
	return aggregate.BuildHierarchy(cards), nil
}

func (s *statsService) Dashboard(ctx context.Context) (models.Dashboard, error) {
	cards, err := s.all(ctx)
	if err != nil {
		return models.Dashboard{}, err
	}
	return aggregate.BuildDashboard(cards), nil
}

func (s *statsService) Summary(ctx context.Context) (models.Summary, error) {
	cards, err := s.all(ctx)
	if err != nil {
		return models.Summary{}, err
	}
	return aggregate.Summarize(cards), nil
}
