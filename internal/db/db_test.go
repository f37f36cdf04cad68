package db_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/db"
)

func TestMigrate_IsIdempotent(t *testing.T) {
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx, sqlDB))
	require.NoError(t, db.Migrate(ctx, sqlDB))

	versions, err := db.Versions()
	require.NoError(t, err)

	var applied int
	require.NoError(t, sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, len(versions), applied)

	for _, table := range []string{"users", "cards", "review_history"} {
		var name string
		err := sqlDB.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flashdeck.db")

	database, err := db.Open("file:" + path)
	require.NoError(t, err)
	defer database.Close()

	assert.NoError(t, database.PingContext(context.Background()))
}

func TestApplied_ListsEveryVersion(t *testing.T) {
	sqlDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx, sqlDB))

	applied, err := db.Applied(ctx, sqlDB)
	require.NoError(t, err)

	versions, err := db.Versions()
	require.NoError(t, err)
	for _, v := range versions {
		assert.NotEmpty(t, applied[v], "version %s", v)
	}
}
