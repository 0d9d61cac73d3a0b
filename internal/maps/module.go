package maps

import (
	apphttp "portal_da_fe_backend/internal/http"
	"portal_da_fe_backend/platform/logger"
)

// Module wires the maps address lookup HTTP routes.
type Module struct {
	service *Service
	handler *Handler
}

func NewModule(log *logger.Logger) *Module {
	svc := NewService(log)
	h := NewHandler(svc)
	return &Module{service: svc, handler: h}
}

func (m *Module) Name() string {
	return "maps"
}

// Service exposes the geocoder for cross-module wiring.
func (m *Module) Service() *Service { return m.service }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/maps")
	group.GET("/address-lookup", m.handler.LookupAddress)
}

var _ apphttp.Module = (*Module)(nil)
