// Package transport defines the auth HTTP request and response shapes.
package transport

import "time"

// SignUpRequest is a new account registration.
type SignUpRequest struct {
	Name     string `json:"name" binding:"required" validate:"min=2,max=120"`
	Email    string `json:"email" binding:"required" validate:"email"`
	Password string `json:"password" binding:"required" validate:"min=8,max=72"`
}

// SignInRequest is a credential check.
type SignInRequest struct {
	Email    string `json:"email" binding:"required" validate:"email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest presents a refresh token for rotation.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// SignOutRequest revokes a refresh token.
type SignOutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required" validate:"min=8,max=72"`
}

// RoleUpdateRequest replaces a user's role set.
type RoleUpdateRequest struct {
	Roles []string `json:"roles" binding:"required" validate:"min=1,dive,oneof=user admin"`
}

// AuthResponse carries a freshly issued token pair.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ProfileResponse is the caller's own account view.
type ProfileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
