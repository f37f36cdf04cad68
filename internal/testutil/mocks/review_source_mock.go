package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/flashdeck/internal/models"
)

// MockReviewSource is a mock implementation of session.Source
type MockReviewSource struct {
	mock.Mock
}

func (m *MockReviewSource) NextReviewCard(ctx context.Context) (*models.Card, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockReviewSource) SubmitReview(ctx context.Context, id int64, correct bool) error {
	args := m.Called(ctx, id, correct)
	return args.Error(0)
}
