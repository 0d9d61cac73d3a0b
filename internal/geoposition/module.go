// Package geoposition wires the location reporting routes and owns the
// in-process fix hub consumed by the venues nearby stream.
package geoposition

import (
	apphttp "portal_da_fe_backend/internal/http"
	"portal_da_fe_backend/platform/logger"
	"portal_da_fe_backend/platform/validator"
)

// Module is the geoposition bounded context module implementing http.Module.
type Module struct {
	hub     *Hub
	handler *Handler
}

// NewModule creates the geoposition module.
func NewModule(log *logger.Logger, val *validator.Validator) *Module {
	hub := NewHub(log)
	return &Module{
		hub:     hub,
		handler: NewHandler(hub, val),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "geoposition"
}

// Hub returns the fix hub for other modules to subscribe to.
func (m *Module) Hub() *Hub {
	return m.hub
}

// RegisterRoutes mounts the location endpoints on the authenticated group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/me/location")
	group.PUT("", m.handler.ReportFix)
	group.POST("/error", m.handler.ReportError)
}

var _ apphttp.Module = (*Module)(nil)
