package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/db"
	"github.com/vytor/flashdeck/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// A single connection keeps every query on the same in-memory database.
func NewTestDB(t *testing.T) *sql.DB {
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(context.Background(), sqlDB))
	return sqlDB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// InsertCard stores a card directly and returns its id.
func InsertCard(t *testing.T, sqlDB *sql.DB, c models.Card) int64 {
	if c.DueAt.IsZero() {
		c.DueAt = time.Now().UTC()
	}
	res, err := sqlDB.Exec(`
INSERT INTO cards (course, chapter, notion, question, answer, score, due_at, times_reviewed, times_correct)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, c.Course, c.Chapter, c.Notion, c.Question, c.Answer, c.Score, c.DueAt.UTC(), c.TimesReviewed, c.TimesCorrect)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
