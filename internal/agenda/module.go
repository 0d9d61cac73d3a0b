package agenda

import (
	"portal_da_fe_backend/internal/events"
	apphttp "portal_da_fe_backend/internal/http"
	"portal_da_fe_backend/platform/logger"
	"portal_da_fe_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the agenda bounded context.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates the agenda module.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, log *logger.Logger, val *validator.Validator) *Module {
	svc := NewService(NewRepo(pool), eventBus, log)

	return &Module{
		handler: NewHandler(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "agenda" }

// SetVenueReader wires venue visibility and ownership lookup.
func (m *Module) SetVenueReader(venues VenueReader) { m.service.SetVenueReader(venues) }

// RegisterRoutes mounts the agenda routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/venues/:id/events", m.handler.ListForVenue)

	ctx.Protected.POST("/venues/:id/events", m.handler.Create)
	ctx.Protected.DELETE("/events/:id", m.handler.Delete)

	ctx.Admin.GET("/events/pending", m.handler.ListPending)
	ctx.Admin.POST("/events/:id/moderate", m.handler.Moderate)
}

var _ apphttp.Module = (*Module)(nil)
