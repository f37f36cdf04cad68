package repository

import (
	"context"
	"time"

	"github.com/vytor/flashdeck/internal/models"
)

// CardRepository handles card data access. Lookups by id return nil, nil
// when the card does not exist.
type CardRepository interface {
	// List returns every card in id order.
	List(ctx context.Context) ([]models.Card, error)
	Get(ctx context.Context, id int64) (*models.Card, error)
	InsertBatch(ctx context.Context, cards []models.NewCard, dueAt time.Time) ([]int64, error)
	UpdateContent(ctx context.Context, id int64, in models.CardInput, now time.Time) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	NextDue(ctx context.Context, now time.Time) (*models.Card, error)
	CountDue(ctx context.Context, now time.Time) (int, error)
	// ApplyReview stores the rescheduled card and its review record together.
	ApplyReview(ctx context.Context, card models.Card, rec models.ReviewRecord) error
}

// ReviewRepository reads review history.
type ReviewRepository interface {
	History(ctx context.Context, cardID int64, limit int) ([]models.ReviewRecord, error)
}

// UserRepository handles user accounts. Lookups return nil, nil when the
// user does not exist.
type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, username string, passwordHash []byte) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash []byte) error
}
