package flashcard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/flashdeck/internal/flashcard"
	"github.com/vytor/flashdeck/internal/models"
)

var now = time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)

func TestApplyOutcome_Correct(t *testing.T) {
	card := models.Card{Score: 1, TimesReviewed: 3, TimesCorrect: 1}

	updated := flashcard.ApplyOutcome(card, true, now)

	assert.Equal(t, 2, updated.Score)
	assert.Equal(t, 4, updated.TimesReviewed)
	assert.Equal(t, 2, updated.TimesCorrect)
	assert.Equal(t, now.Add(2*24*time.Hour), updated.DueAt)
}

func TestApplyOutcome_IncorrectResetsScore(t *testing.T) {
	card := models.Card{Score: 4, TimesReviewed: 8, TimesCorrect: 7}

	updated := flashcard.ApplyOutcome(card, false, now)

	assert.Equal(t, 0, updated.Score)
	assert.Equal(t, 9, updated.TimesReviewed)
	assert.Equal(t, 7, updated.TimesCorrect, "times correct is not reset")
	assert.Equal(t, now.Add(10*time.Minute), updated.DueAt)
}

func TestApplyOutcome_ScoreCapped(t *testing.T) {
	card := models.Card{Score: models.MaxScore}

	updated := flashcard.ApplyOutcome(card, true, now)

	assert.Equal(t, models.MaxScore, updated.Score)
	assert.Equal(t, now.Add(16*24*time.Hour), updated.DueAt)
}

func TestApplyOutcome_IntervalsGrowWithScore(t *testing.T) {
	card := models.Card{}
	var last time.Duration
	for i := 0; i < models.MaxScore; i++ {
		card = flashcard.ApplyOutcome(card, true, now)
		interval := card.DueAt.Sub(now)
		assert.Greater(t, interval, last, "score %d", card.Score)
		last = interval
	}
}

func TestApplyOutcome_DoesNotTouchContent(t *testing.T) {
	card := models.Card{ID: 9, Course: "Math", Question: "q", Answer: "a"}

	updated := flashcard.ApplyOutcome(card, true, now)

	assert.Equal(t, card.Input(), updated.Input())
	assert.Equal(t, int64(9), updated.ID)
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-3, 0},
		{0, 0},
		{3, 3},
		{5, 5},
		{12, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, flashcard.ClampScore(tt.in))
	}
}
