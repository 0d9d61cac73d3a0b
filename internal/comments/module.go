// Package comments is the venue reviews bounded context: submissions,
// moderation, and the venue rating aggregate derived from approved reviews.
package comments

import (
	"portal_da_fe_backend/internal/comments/handler"
	"portal_da_fe_backend/internal/comments/repository"
	"portal_da_fe_backend/internal/comments/service"
	"portal_da_fe_backend/internal/events"
	apphttp "portal_da_fe_backend/internal/http"
	"portal_da_fe_backend/platform/logger"
	"portal_da_fe_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the comments bounded context.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the comments module.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "comments" }

// Service exposes the comments service for cross-module wiring.
func (m *Module) Service() *service.Service { return m.service }

// SetVenueChecker wires the venue visibility check.
func (m *Module) SetVenueChecker(venues service.VenueChecker) { m.service.SetVenueChecker(venues) }

// SetAuthorReader wires author metadata lookup.
func (m *Module) SetAuthorReader(authors service.AuthorReader) { m.service.SetAuthorReader(authors) }

// RegisterRoutes mounts the comments routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/venues/:id/comments", m.handler.ListForVenue)

	ctx.Protected.POST("/venues/:id/comments", m.handler.Create)
	ctx.Protected.DELETE("/comments/:id", m.handler.Delete)

	ctx.Admin.GET("/comments/pending", m.handler.ListPending)
	ctx.Admin.POST("/comments/:id/moderate", m.handler.Moderate)
}

var _ apphttp.Module = (*Module)(nil)
