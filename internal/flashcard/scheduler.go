package flashcard

import (
	"time"

	"github.com/vytor/flashdeck/internal/models"
)

// Intervals maps a score to the delay before the card is due again.
// A failed card comes back within the same study session.
var Intervals = [models.MaxScore + 1]time.Duration{
	10 * time.Minute,
	24 * time.Hour,
	2 * 24 * time.Hour,
	4 * 24 * time.Hour,
	8 * 24 * time.Hour,
	16 * 24 * time.Hour,
}

// ApplyOutcome updates scoring and scheduling for one review outcome.
// A correct answer moves the card up one box (capped at models.MaxScore);
// a wrong one sends it back to box 0.
func ApplyOutcome(card models.Card, correct bool, now time.Time) models.Card {
	card.TimesReviewed++
	if correct {
		card.TimesCorrect++
		card.Score++
	} else {
		card.Score = 0
	}
	card.Score = ClampScore(card.Score)
	card.DueAt = now.Add(Intervals[card.Score]).UTC()
	return card
}

// ClampScore bounds s to [0, models.MaxScore].
func ClampScore(s int) int {
	switch {
	case s < 0:
		return 0
	case s > models.MaxScore:
		return models.MaxScore
	default:
		return s
	}
}
