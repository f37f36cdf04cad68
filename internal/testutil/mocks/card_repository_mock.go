package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashdeck/internal/models"
)

// MockCardRepository is a mock implementation of repository.CardRepository
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) List(ctx context.Context) ([]models.Card, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) InsertBatch(ctx context.Context, cards []models.NewCard, dueAt time.Time) ([]int64, error) {
	args := m.Called(ctx, cards, dueAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockCardRepository) UpdateContent(ctx context.Context, id int64, in models.CardInput, now time.Time) (bool, error) {
	args := m.Called(ctx, id, in, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockCardRepository) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCardRepository) NextDue(ctx context.Context, now time.Time) (*models.Card, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) CountDue(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) ApplyReview(ctx context.Context, card models.Card, rec models.ReviewRecord) error {
	args := m.Called(ctx, card, rec)
	return args.Error(0)
}
