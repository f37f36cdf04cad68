package models

import "time"

const (
	// MaxScore is the highest mastery score a card can reach.
	MaxScore = 5
	// LowScoreThreshold marks cards that belong on the review watchlist.
	LowScoreThreshold = 1
)

// Card is a single question/answer flashcard classified by course,
// chapter and notion. Score is only changed by review outcomes.
type Card struct {
	ID            int64     `json:"id"`
	Course        string    `json:"course"`
	Chapter       string    `json:"chapter"`
	Notion        string    `json:"notion"`
	Question      string    `json:"question"`
	Answer        string    `json:"answer"`
	Score         int       `json:"score"`
	DueAt         time.Time `json:"due_at"`
	TimesReviewed int       `json:"times_reviewed"`
	TimesCorrect  int       `json:"times_correct"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NeedsReview reports whether the card belongs on the low-score watchlist.
func (c Card) NeedsReview() bool {
	return c.Score <= LowScoreThreshold
}

// Path renders the classification as "course > chapter > notion".
func (c Card) Path() string {
	return c.Course + " > " + c.Chapter + " > " + c.Notion
}

// CardInput holds the user-editable fields of a card.
type CardInput struct {
	Course   string `json:"course" validate:"max=2000"`
	Chapter  string `json:"chapter" validate:"max=2000"`
	Notion   string `json:"notion" validate:"max=2000"`
	Question string `json:"question" validate:"required,notblank,max=2000"`
	Answer   string `json:"answer" validate:"required,notblank,max=2000"`
}

// Input returns the editable fields of c.
func (c Card) Input() CardInput {
	return CardInput{
		Course:   c.Course,
		Chapter:  c.Chapter,
		Notion:   c.Notion,
		Question: c.Question,
		Answer:   c.Answer,
	}
}

// NewCard is a card to be inserted, as produced by an import.
type NewCard struct {
	CardInput
	Score int
}

// ReviewRecord is one submitted outcome.
type ReviewRecord struct {
	ID          int64     `json:"id"`
	CardID      int64     `json:"card_id"`
	Correct     bool      `json:"correct"`
	ScoreBefore int       `json:"score_before"`
	ScoreAfter  int       `json:"score_after"`
	ReviewedAt  time.Time `json:"reviewed_at"`
}
