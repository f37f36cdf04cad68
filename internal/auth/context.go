package auth

import (
	"context"

	"github.com/vytor/flashdeck/internal/models"
)

type ctxKey struct{}

// NewContext returns a context carrying the authenticated user.
func NewContext(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*models.User)
	return u, ok && u != nil
}
