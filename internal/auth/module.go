// Package auth is the authentication bounded context: account registration,
// sign-in, token rotation, and role administration.
package auth

import (
	"portal_da_fe_backend/internal/auth/handler"
	"portal_da_fe_backend/internal/auth/repository"
	"portal_da_fe_backend/internal/auth/service"
	"portal_da_fe_backend/internal/events"
	apphttp "portal_da_fe_backend/internal/http"
	"portal_da_fe_backend/platform/config"
	"portal_da_fe_backend/platform/logger"
	"portal_da_fe_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the auth bounded context.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, eventBus events.Bus,
	log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, eventBus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "auth" }

// Service exposes the auth service for cross-module wiring.
func (m *Module) Service() *service.Service { return m.service }

// RegisterRoutes mounts the auth routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	ctx.Protected.GET("/users/me", m.handler.GetMe)
	ctx.Protected.POST("/users/me/password", m.handler.ChangePassword)

	ctx.Admin.PUT("/users/:id/roles", m.handler.SetUserRoles)
}

var _ apphttp.Module = (*Module)(nil)
