package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
)

func TestStatsService(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	repo.On("List", mock.Anything).Return([]models.Card{
		{ID: 1, Course: "Math", Chapter: "Algebra", Notion: "Groups", Score: 0},
		{ID: 2, Course: "Math", Chapter: "Algebra", Notion: "Rings", Score: 2},
	}, nil)
	svc := NewStatsService(repo)
	ctx := context.Background()

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	require.Len(t, dash.Courses, 1)
	assert.Equal(t, models.CourseStat{Course: "Math", Score: 1.00, Count: 2}, dash.Courses[0])
	require.Len(t, dash.Watchlist, 1)
	assert.Equal(t, int64(1), dash.Watchlist[0].ID)

	tree, err := svc.Hierarchy(ctx)
	require.NoError(t, err)
	require.Len(t, tree.Courses, 1)
	assert.Len(t, tree.Courses[0].Chapters[0].Notions, 2)

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalCards)
	assert.Equal(t, 1, sum.LowScoreCount)
}

func TestStatsService_RepositoryError(t *testing.T) {
	repo := new(mocks.MockCardRepository)
	repo.On("List", mock.Anything).Return(nil, errors.New("locked"))
	svc := NewStatsService(repo)

	_, err := svc.Dashboard(context.Background())
	assert.Equal(t, apperrors.ErrCodeInternal, apperrors.As(err).Code)
}
