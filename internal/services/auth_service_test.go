package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vytor/flashdeck/internal/auth"
	apperrors "github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/testutil"
	"github.com/vytor/flashdeck/internal/testutil/mocks"
)

func newTokens() *auth.TokenManager {
	return auth.NewTokenManager("test-secret-at-least-32-chars-long-for-hs256", "flashdeck", time.Hour)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := auth.HashPassword("hunter22")
	require.NoError(t, err)
	user := &models.User{ID: 7, Username: "ana", PasswordHash: hash}

	users := new(mocks.MockUserRepository)
	users.On("GetByUsername", mock.Anything, "ana").Return(user, nil)
	users.On("GetByUsername", mock.Anything, "bob").Return(nil, nil)
	users.On("Get", mock.Anything, int64(7)).Return(user, nil)
	tokens := newTokens()
	svc := NewAuthService(users, tokens)
	ctx := context.Background()

	token, u, err := svc.Login(ctx, models.Credentials{Username: "ana", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)

	authed, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "ana", authed.Username)

	_, _, err = svc.Login(ctx, models.Credentials{Username: "ana", Password: "wrong-one"})
	assert.Equal(t, apperrors.ErrCodeUnauthorized, apperrors.As(err).Code)

	_, _, err = svc.Login(ctx, models.Credentials{Username: "bob", Password: "whatever"})
	assert.Equal(t, apperrors.ErrCodeUnauthorized, apperrors.As(err).Code)

	_, _, err = svc.Login(ctx, models.Credentials{Username: "", Password: "x"})
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.As(err).Code)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.Equal(t, apperrors.ErrCodeUnauthorized, apperrors.As(err).Code)
}

func TestAuthService_EnsureUser(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("GetByUsername", mock.Anything, "admin").Return(nil, nil).Twice()
	users.On("Create", mock.Anything, "admin", mock.AnythingOfType("[]uint8")).Return(&models.User{ID: 1, Username: "admin"}, nil).Once()
	svc := NewAuthService(users, newTokens())

	created, err := svc.EnsureUser(context.Background(), "admin", "long-enough-password")
	require.NoError(t, err)
	assert.True(t, created)

	users.On("GetByUsername", mock.Anything, "admin").Return(&models.User{ID: 1, Username: "admin"}, nil)
	created, err = svc.EnsureUser(context.Background(), "admin", "long-enough-password")
	require.NoError(t, err)
	assert.False(t, created)
	users.AssertExpectations(t)
}

func TestAuthService_PaddedUsernameIsTrimmed(t *testing.T) {
	sqlDB := testutil.NewTestDB(t)
	defer testutil.MustClose(t, sqlDB)
	svc := NewAuthService(sqlite.NewUserRepository(sqlDB), newTokens())
	ctx := context.Background()

	created, err := svc.EnsureUser(ctx, " admin ", "password123")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.EnsureUser(ctx, " admin ", "password123")
	require.NoError(t, err)
	assert.False(t, created)

	_, u, err := svc.Login(ctx, models.Credentials{Username: "  admin", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Username)

	require.NoError(t, svc.ResetPassword(ctx, "admin ", "another-password"))
	_, _, err = svc.Login(ctx, models.Credentials{Username: "admin", Password: "another-password"})
	assert.NoError(t, err)
}

func TestAuthService_CreateUserRejectsShortPassword(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("GetByUsername", mock.Anything, "ana").Return(nil, nil)
	svc := NewAuthService(users, newTokens())

	_, err := svc.CreateUser(context.Background(), "ana", "short")
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.As(err).Code)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_ResetPassword(t *testing.T) {
	users := new(mocks.MockUserRepository)
	users.On("GetByUsername", mock.Anything, "ana").Return(&models.User{ID: 7}, nil)
	users.On("GetByUsername", mock.Anything, "nobody").Return(nil, nil)
	users.On("UpdatePassword", mock.Anything, int64(7), mock.Anything).Return(nil)
	svc := NewAuthService(users, newTokens())

	require.NoError(t, svc.ResetPassword(context.Background(), "ana", "a-new-password"))
	assert.True(t, apperrors.IsNotFound(svc.ResetPassword(context.Background(), "nobody", "a-new-password")))
}
