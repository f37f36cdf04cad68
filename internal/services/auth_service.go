package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/vytor/flashdeck/internal/auth"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/repository"
	"github.com/vytor/flashdeck/internal/validation"
)

// AuthService handles accounts and session tokens
type AuthService interface {
	// Login checks credentials and returns a signed session token.
	Login(ctx context.Context, creds models.Credentials) (string, *models.User, error)
	// Authenticate resolves a session token to its user.
	Authenticate(ctx context.Context, token string) (*models.User, error)
	CreateUser(ctx context.Context, username, password string) (*models.User, error)
	ResetPassword(ctx context.Context, username, password string) error
	// EnsureUser creates the account unless a user with that name exists.
	EnsureUser(ctx context.Context, username, password string) (bool, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
}

// NewAuthService creates a new AuthService
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager) AuthService {
	return &authService{users: users, tokens: tokens}
}

// normalizeUsername is applied before every lookup so stored and queried
// names share one key.
func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func badCredentials() *errors.AppError {
	return errors.NewUnauthorizedError("invalid username or password")
}

func (s *authService) Login(ctx context.Context, creds models.Credentials) (string, *models.User, error) {
	creds.Username = normalizeUsername(creds.Username)
	log := logger.FromContext(ctx).WithField("username", creds.Username)

	if err := validation.Struct(creds); err != nil {
		return "", nil, err
	}

	u, err := s.users.GetByUsername(ctx, creds.Username)
	if err != nil {
		log.Error("failed to look up user: %v", err)
		return "", nil, errors.NewInternalError(err)
	}
	if u == nil {
		log.Info("login failed: unknown user")
		return "", nil, badCredentials()
	}
	if err := auth.CheckPassword(u.PasswordHash, creds.Password); err != nil {
		if !stderrors.Is(err, auth.ErrMismatchedPassword) {
			log.Error("failed to check password: %v", err)
		}
		log.Info("login failed: wrong password")
		return "", nil, badCredentials()
	}

	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		log.Error("failed to issue token: %v", err)
		return "", nil, errors.NewInternalError(err)
	}
	log.Info("user logged in")
	return token, u, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	id, err := s.tokens.Validate(token)
	if err != nil {
		logger.FromContext(ctx).Debug("rejected token: %v", err)
		return nil, errors.NewUnauthorizedError("invalid or expired session")
	}
	u, err := s.users.Get(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to load user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if u == nil {
		return nil, errors.NewUnauthorizedError("invalid or expired session")
	}
	return u, nil
}

func (s *authService) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	username = normalizeUsername(username)
	log := logger.FromContext(ctx).WithField("username", username)

	if err := validation.Struct(models.Credentials{Username: username, Password: password}); err != nil {
		return nil, err
	}
	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		return nil, errors.NewValidationError("username", "already taken")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, errors.NewValidationError("password", err.Error())
	}
	u, err := s.users.Create(ctx, username, hash)
	if err != nil {
		log.Error("failed to create user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("user created: id=%d", u.ID)
	return u, nil
}

func (s *authService) ResetPassword(ctx context.Context, username, password string) error {
	username = normalizeUsername(username)
	log := logger.FromContext(ctx).WithField("username", username)

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if u == nil {
		return errors.NewNotFoundError("user", username)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return errors.NewValidationError("password", err.Error())
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		log.Error("failed to update password: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("password reset")
	return nil
}

func (s *authService) EnsureUser(ctx context.Context, username, password string) (bool, error) {
	username = normalizeUsername(username)
	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return false, errors.NewInternalError(err)
	}
	if existing != nil {
		return false, nil
	}
	if _, err := s.CreateUser(ctx, username, password); err != nil {
		return false, err
	}
	return true, nil
}
