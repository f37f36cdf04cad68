package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) get(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	sqlStr, args, err := sqlBuilder.Select("id", "username", "password_hash", "created_at").
		From("users").Where(where).ToSql()
	if err != nil {
		return nil, err
	}

	var u models.User
	err = r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: %v", where)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	return r.get(ctx, squirrel.Eq{"id": id})
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.get(ctx, squirrel.Eq{"username": username})
}

func (r *userRepository) Create(ctx context.Context, username string, passwordHash []byte) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("creating user: username=%s", username)

	var u models.User
	err := r.db.QueryRowContext(ctx, `
INSERT INTO users (username, password_hash)
VALUES (?, ?)
RETURNING id, username, password_hash, created_at
`, username, passwordHash).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		log.Error("failed to create user: %v", err)
		return nil, err
	}
	log.Debug("user created: id=%d", u.ID)
	return &u, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash []byte) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("updating password: id=%d", id)

	n, err := execBuilt(ctx, r.db, sqlBuilder.Update("users").
		Set("password_hash", passwordHash).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		log.Error("failed to update password: %v", err)
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
