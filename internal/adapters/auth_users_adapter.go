package adapters

import (
	"context"

	"portal_da_fe_backend/internal/auth/service"

	"github.com/google/uuid"
)

// AuthUsersAdapter exposes user lookups from the auth module to the venues,
// comments and appointments modules.
type AuthUsersAdapter struct {
	svc *service.Service
}

// NewAuthUsersAdapter wraps the auth service.
func NewAuthUsersAdapter(svc *service.Service) *AuthUsersAdapter {
	return &AuthUsersAdapter{svc: svc}
}

// GetEmailByID resolves a user's email address.
func (a *AuthUsersAdapter) GetEmailByID(ctx context.Context, id uuid.UUID) (string, error) {
	return a.svc.GetEmailByID(ctx, id)
}

// GetByID resolves a user's display name and email.
func (a *AuthUsersAdapter) GetByID(ctx context.Context, id uuid.UUID) (name, email string, err error) {
	user, err := a.svc.GetMe(ctx, id)
	if err != nil {
		return "", "", err
	}
	return user.Name, user.Email, nil
}
