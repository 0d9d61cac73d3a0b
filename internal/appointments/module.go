// Package appointments is the visit scheduling bounded context: visiting
// windows, free-slot computation, bookings, and reminder scheduling.
package appointments

import (
	"time"

	"portal_da_fe_backend/internal/appointments/handler"
	"portal_da_fe_backend/internal/appointments/repository"
	"portal_da_fe_backend/internal/appointments/service"
	"portal_da_fe_backend/internal/events"
	apphttp "portal_da_fe_backend/internal/http"
	"portal_da_fe_backend/platform/logger"
	"portal_da_fe_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the appointments bounded context.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the appointments module.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, log *logger.Logger,
	val *validator.Validator, reminderLead time.Duration) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log, reminderLead)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "appointments" }

// Service exposes the appointments service for cross-module wiring.
func (m *Module) Service() *service.Service { return m.service }

// SetVenueReader wires venue lookups.
func (m *Module) SetVenueReader(venues service.VenueReader) { m.service.SetVenueReader(venues) }

// SetUserReader wires visitor email lookup.
func (m *Module) SetUserReader(users service.UserReader) { m.service.SetUserReader(users) }

// SetReminderScheduler wires the reminder queue.
func (m *Module) SetReminderScheduler(r service.ReminderScheduler) {
	m.service.SetReminderScheduler(r)
}

// RegisterRoutes mounts the appointments routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/venues/:id/slots", m.handler.FreeSlots)

	ctx.Protected.POST("/venues/:id/appointments", m.handler.Book)
	ctx.Protected.GET("/venues/:id/appointments", m.handler.ListForVenue)
	ctx.Protected.PUT("/venues/:id/hours", m.handler.ReplaceWindows)
	ctx.Protected.GET("/appointments", m.handler.ListMine)
	ctx.Protected.GET("/appointments/:id", m.handler.Get)
	ctx.Protected.POST("/appointments/:id/confirm", m.handler.Confirm)
	ctx.Protected.POST("/appointments/:id/cancel", m.handler.Cancel)
}

var _ apphttp.Module = (*Module)(nil)
