package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

var cardColumns = []string{
	"id", "course", "chapter", "notion", "question", "answer", "score",
	"due_at", "times_reviewed", "times_correct", "created_at", "updated_at",
}

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (models.Card, error) {
	var c models.Card
	err := row.Scan(&c.ID, &c.Course, &c.Chapter, &c.Notion, &c.Question, &c.Answer, &c.Score,
		&c.DueAt, &c.TimesReviewed, &c.TimesCorrect, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *cardRepository) List(ctx context.Context) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards")

	sqlStr, args, err := sqlBuilder.Select(cardColumns...).From("cards").OrderBy("id ASC").ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%d", id)

	sqlStr, args, err := sqlBuilder.Select(cardColumns...).From("cards").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	c, err := scanCard(r.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) InsertBatch(ctx context.Context, cards []models.NewCard, dueAt time.Time) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting %d cards", len(cards))

	ids := make([]int64, 0, len(cards))
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO cards (course, chapter, notion, question, answer, score, due_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		now := dueAt.UTC()
		for _, c := range cards {
			res, err := stmt.ExecContext(ctx, c.Course, c.Chapter, c.Notion, c.Question, c.Answer, c.Score, now, now, now)
			if err != nil {
				return err
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert cards: %v", err)
		return nil, err
	}
	log.Debug("inserted %d cards", len(ids))
	return ids, nil
}

func (r *cardRepository) UpdateContent(ctx context.Context, id int64, in models.CardInput, now time.Time) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card content: id=%d", id)

	n, err := execBuilt(ctx, r.db, sqlBuilder.Update("cards").
		Set("course", in.Course).
		Set("chapter", in.Chapter).
		Set("notion", in.Notion).
		Set("question", in.Question).
		Set("answer", in.Answer).
		Set("updated_at", now.UTC()).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		log.Error("failed to update card: %v", err)
		return false, err
	}
	return n > 0, nil
}

func (r *cardRepository) Delete(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: id=%d", id)

	n, err := execBuilt(ctx, r.db, sqlBuilder.Delete("cards").Where(squirrel.Eq{"id": id}))
	if err != nil {
		log.Error("failed to delete card: %v", err)
		return false, err
	}
	return n > 0, nil
}

// NextDue picks the weakest overdue card: lowest score, then the one waiting
// longest, then the oldest id.
func (r *cardRepository) NextDue(ctx context.Context, now time.Time) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	sqlStr, args, err := sqlBuilder.Select(cardColumns...).From("cards").
		Where(squirrel.LtOrEq{"due_at": now.UTC()}).
		OrderBy("score ASC", "due_at ASC", "id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}

	c, err := scanCard(r.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no cards due")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to query next due card: %v", err)
		return nil, err
	}
	log.Debug("next due card: id=%d, score=%d", c.ID, c.Score)
	return &c, nil
}

func (r *cardRepository) CountDue(ctx context.Context, now time.Time) (int, error) {
	sqlStr, args, err := sqlBuilder.Select("COUNT(*)").From("cards").
		Where(squirrel.LtOrEq{"due_at": now.UTC()}).
		ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&n); err != nil {
		logger.FromContext(ctx).WithPrefix("card_repo").Error("failed to count due cards: %v", err)
		return 0, err
	}
	return n, nil
}

func (r *cardRepository) ApplyReview(ctx context.Context, c models.Card, rec models.ReviewRecord) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("applying review: id=%d, correct=%t, score=%d->%d", c.ID, rec.Correct, rec.ScoreBefore, rec.ScoreAfter)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		n, err := execBuilt(ctx, tx, sqlBuilder.Update("cards").
			Set("score", c.Score).
			Set("due_at", c.DueAt.UTC()).
			Set("times_reviewed", c.TimesReviewed).
			Set("times_correct", c.TimesCorrect).
			Set("updated_at", rec.ReviewedAt.UTC()).
			Where(squirrel.Eq{"id": c.ID}))
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		_, err = execBuilt(ctx, tx, sqlBuilder.Insert("review_history").
			Columns("card_id", "correct", "score_before", "score_after", "reviewed_at").
			Values(c.ID, rec.Correct, rec.ScoreBefore, rec.ScoreAfter, rec.ReviewedAt.UTC()))
		return err
	})
}
