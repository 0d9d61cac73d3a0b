// Package repository implements auth persistence over PostgreSQL.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portal_da_fe_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// User is the persisted account record.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repo implements auth persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new auth repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// CreateUser inserts a new account with the given role set.
func (r *Repo) CreateUser(ctx context.Context, name, email, passwordHash string, roles []string) (User, error) {
	query := `
		INSERT INTO users (id, name, email, password_hash, roles)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, email, password_hash, roles, created_at, updated_at`

	row := r.pool.QueryRow(ctx, query, uuid.New(), name, email, passwordHash, roles)
	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return User{}, apperr.Conflict("email already registered")
		}
		return User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves an account by email.
func (r *Repo) GetUserByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT id, name, email, password_hash, roles, created_at, updated_at
		FROM users WHERE email = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

// GetUserByID retrieves an account by ID.
func (r *Repo) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	query := `SELECT id, name, email, password_hash, roles, created_at, updated_at
		FROM users WHERE id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, fmt.Errorf("get user by id: %w", err)
	}

	return user, nil
}

// SetUserRoles replaces the account's role set.
func (r *Repo) SetUserRoles(ctx context.Context, id uuid.UUID, roles []string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET roles = $2, updated_at = NOW() WHERE id = $1`, id, roles)
	if err != nil {
		return fmt.Errorf("set user roles: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// UpdatePassword replaces the account's password hash.
func (r *Repo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// CreateRefreshToken stores a hashed refresh token.
func (r *Repo) CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO refresh_tokens (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)`, tokenHash, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken resolves a hashed refresh token that has not been revoked.
func (r *Repo) GetRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, time.Time, error) {
	query := `SELECT user_id, expires_at FROM refresh_tokens
		WHERE token_hash = $1 AND revoked_at IS NULL`

	var userID uuid.UUID
	var expiresAt time.Time
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(&userID, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, time.Time{}, apperr.Unauthorized("invalid refresh token")
		}
		return uuid.Nil, time.Time{}, fmt.Errorf("get refresh token: %w", err)
	}

	return userID, expiresAt, nil
}

// RevokeRefreshToken marks one refresh token as used.
func (r *Repo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = NOW()
		WHERE token_hash = $1 AND revoked_at IS NULL`, tokenHash)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAllRefreshTokens revokes every live token for one user.
func (r *Repo) RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = NOW()
		WHERE user_id = $1 AND revoked_at IS NULL`, userID)
	if err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Roles,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}
