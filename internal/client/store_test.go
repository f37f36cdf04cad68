package client

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/models"
)

type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) ListCards(ctx context.Context, query string) ([]models.Card, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *mockBackend) UpdateCard(ctx context.Context, id int64, in models.CardInput) (*models.Card, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *mockBackend) DeleteCard(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBackend) Upload(ctx context.Context, name string, r io.Reader) (int, error) {
	args := m.Called(ctx, name, r)
	return args.Int(0), args.Error(1)
}

func TestStore_RefreshOverwrites(t *testing.T) {
	api := new(mockBackend)
	api.On("ListCards", mock.Anything, "").Return([]models.Card{{ID: 1}, {ID: 2}}, nil).Once()
	api.On("ListCards", mock.Anything, "").Return([]models.Card{{ID: 3}}, nil).Once()
	s := NewStore(api)
	ctx := context.Background()

	require.NoError(t, s.Refresh(ctx))
	assert.Len(t, s.Cards(), 2)

	require.NoError(t, s.Refresh(ctx))
	cards := s.Cards()
	require.Len(t, cards, 1)
	assert.Equal(t, int64(3), cards[0].ID)
}

func TestStore_RefreshFailureKeepsCache(t *testing.T) {
	api := new(mockBackend)
	api.On("ListCards", mock.Anything, "").Return([]models.Card{{ID: 1}}, nil).Once()
	api.On("ListCards", mock.Anything, "").Return(nil, errors.New("offline")).Once()
	s := NewStore(api)

	require.NoError(t, s.Refresh(context.Background()))
	assert.Error(t, s.Refresh(context.Background()))
	assert.Len(t, s.Cards(), 1)
}

func TestStore_MutationsRefetch(t *testing.T) {
	api := new(mockBackend)
	in := models.CardInput{Question: "q", Answer: "a"}
	api.On("UpdateCard", mock.Anything, int64(1), in).Return(&models.Card{ID: 1}, nil).Once()
	api.On("DeleteCard", mock.Anything, int64(1)).Return(nil).Once()
	api.On("Upload", mock.Anything, "deck.csv", mock.Anything).Return(2, nil).Once()
	api.On("ListCards", mock.Anything, "").Return([]models.Card{{ID: 1}}, nil).Times(3)
	s := NewStore(api)
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, 1, in))
	require.NoError(t, s.Delete(ctx, 1))
	n, err := s.Import(ctx, "deck.csv", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	api.AssertExpectations(t)
}

func TestStore_FailedMutationStillRefetches(t *testing.T) {
	api := new(mockBackend)
	api.On("DeleteCard", mock.Anything, int64(5)).Return(errors.New("404")).Once()
	api.On("ListCards", mock.Anything, "").Return([]models.Card{{ID: 1}}, nil).Once()
	s := NewStore(api)

	err := s.Delete(context.Background(), 5)
	assert.EqualError(t, err, "404")
	assert.Len(t, s.Cards(), 1)
	api.AssertExpectations(t)
}

func TestStore_DerivedViews(t *testing.T) {
	api := new(mockBackend)
	api.On("ListCards", mock.Anything, "").Return([]models.Card{
		{ID: 1, Course: "Math", Chapter: "Algebra", Notion: "Groups", Question: "group?", Score: 0},
		{ID: 2, Course: "Math", Chapter: "Algebra", Notion: "Rings", Question: "ring?", Score: 2},
	}, nil)
	s := NewStore(api)
	require.NoError(t, s.Refresh(context.Background()))

	dash := s.Dashboard()
	require.Len(t, dash.Courses, 1)
	assert.Equal(t, 1.00, dash.Courses[0].Score)
	assert.Equal(t, 2, dash.Courses[0].Count)

	assert.Len(t, s.Hierarchy().Flatten(), 2)
	assert.Len(t, s.Filter("RING"), 1)
}
