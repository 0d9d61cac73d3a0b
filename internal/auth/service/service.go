// Package service implements account registration, credential checks, and
// token issuance. Access tokens are short-lived HS256 JWTs; refresh tokens
// are opaque, stored hashed, and rotated on every use.
package service

import (
	"context"
	"strings"
	"time"

	"portal_da_fe_backend/internal/auth/repository"
	"portal_da_fe_backend/internal/auth/token"
	"portal_da_fe_backend/internal/events"
	"portal_da_fe_backend/platform/apperr"
	"portal_da_fe_backend/platform/config"
	"portal_da_fe_backend/platform/logger"
	"portal_da_fe_backend/platform/sanitize"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenType  = "access"
	refreshTokenType = "refresh"

	// RoleUser is the default role for new accounts.
	RoleUser = "user"
	// RoleAdmin grants access to moderation endpoints.
	RoleAdmin = "admin"
)

// TokenPair is an access/refresh token set issued on sign-in and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Service implements the auth business logic.
type Service struct {
	repo     *repository.Repo
	cfg      config.AuthServiceConfig
	eventBus events.Bus
	log      *logger.Logger
}

// New creates the auth service.
func New(repo *repository.Repo, cfg config.AuthServiceConfig, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, eventBus: eventBus, log: log}
}

// SignUp registers a new account and signs it in.
func (s *Service) SignUp(ctx context.Context, name, email, plainPassword string) (TokenPair, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return TokenPair{}, apperr.Internal("password hashing failed")
	}

	user, err := s.repo.CreateUser(ctx,
		sanitize.Text(name), normalizeEmail(email), string(hash), []string{RoleUser})
	if err != nil {
		return TokenPair{}, err
	}

	s.log.AuthEvent("sign_up", user.Email, true, "")
	s.eventBus.Publish(ctx, events.UserSignedUp{
		BaseEvent: events.NewBaseEvent(),
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
	})

	return s.issueTokens(ctx, user)
}

// SignIn checks credentials and issues a token pair. Lookup and password
// failures collapse into one error so the response does not reveal which
// accounts exist.
func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (TokenPair, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		s.log.AuthEvent("sign_in", email, false, "unknown email")
		return TokenPair{}, apperr.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plainPassword)); err != nil {
		s.log.AuthEvent("sign_in", email, false, "wrong password")
		return TokenPair{}, apperr.Unauthorized("invalid credentials")
	}

	s.log.AuthEvent("sign_in", user.Email, true, "")
	return s.issueTokens(ctx, user)
}

// Refresh rotates a refresh token: the presented token is revoked and a
// fresh pair is issued. An expired token is revoked without replacement.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	hash := token.HashSHA256(refreshToken)
	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, hash)
	if err != nil {
		return TokenPair{}, apperr.Unauthorized("invalid refresh token")
	}

	if time.Now().After(expiresAt) {
		_ = s.repo.RevokeRefreshToken(ctx, hash)
		return TokenPair{}, apperr.Unauthorized("refresh token expired")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return TokenPair{}, apperr.Unauthorized("invalid refresh token")
	}

	if err := s.repo.RevokeRefreshToken(ctx, hash); err != nil {
		return TokenPair{}, err
	}
	return s.issueTokens(ctx, user)
}

// SignOut revokes the presented refresh token. Unknown tokens succeed so
// sign-out is idempotent.
func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.repo.RevokeRefreshToken(ctx, token.HashSHA256(refreshToken))
}

// GetMe retrieves the caller's profile.
func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (repository.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// ChangePassword replaces the password after checking the current one and
// revokes every outstanding refresh token.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperr.Unauthorized("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal("password hashing failed")
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	return s.repo.RevokeAllRefreshTokens(ctx, userID)
}

// SetUserRoles replaces a user's role set. Admin only; enforced at the
// route level.
func (s *Service) SetUserRoles(ctx context.Context, userID uuid.UUID, roles []string) error {
	return s.repo.SetUserRoles(ctx, userID, roles)
}

// GetEmailByID resolves a user's email for cross-module notification use.
func (s *Service) GetEmailByID(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

func (s *Service) issueTokens(ctx context.Context, user repository.User) (TokenPair, error) {
	accessToken, err := signJWT(user.ID, user.Roles, s.cfg.GetAccessTokenTTL(),
		accessTokenType, s.cfg.GetJWTAccessSecret())
	if err != nil {
		return TokenPair{}, apperr.Internal("token signing failed")
	}

	refreshToken, err := token.GenerateRandom(48)
	if err != nil {
		return TokenPair{}, apperr.Internal("token generation failed")
	}

	expiresAt := time.Now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, user.ID, token.HashSHA256(refreshToken), expiresAt); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func signJWT(userID uuid.UUID, roles []string, ttl time.Duration, tokenType, secret string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"type":  tokenType,
		"roles": roles,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
