package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type reviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new ReviewRepository implementation
func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

// History returns the most recent reviews of a card, newest first.
func (r *reviewRepository) History(ctx context.Context, cardID int64, limit int) ([]models.ReviewRecord, error) {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("fetching review history: card_id=%d, limit=%d", cardID, limit)

	if limit <= 0 {
		limit = 20
	}
	sqlStr, args, err := sqlBuilder.
		Select("id", "card_id", "correct", "score_before", "score_after", "reviewed_at").
		From("review_history").
		Where(squirrel.Eq{"card_id": cardID}).
		OrderBy("reviewed_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query review history: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.ReviewRecord
	for rows.Next() {
		var rec models.ReviewRecord
		if err := rows.Scan(&rec.ID, &rec.CardID, &rec.Correct, &rec.ScoreBefore, &rec.ScoreAfter, &rec.ReviewedAt); err != nil {
			log.Error("failed to scan review row: %v", err)
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
