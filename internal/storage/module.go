package storage

import (
	apphttp "portal_da_fe_backend/internal/http"
	"portal_da_fe_backend/platform/validator"
)

// Module wires the image upload endpoints. It is only registered when
// MinIO is configured.
type Module struct {
	service *Service
	handler *Handler
}

// NewModule creates the storage module around an initialized service.
func NewModule(svc *Service, val *validator.Validator) *Module {
	return &Module{service: svc, handler: NewHandler(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "storage" }

// Service exposes the storage service for cross-module wiring.
func (m *Module) Service() *Service { return m.service }

// RegisterRoutes mounts the upload routes. All routes require auth.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/uploads/venue-images")
	{
		group.POST("", m.handler.CreateUploadURL)
		group.POST("/location", m.handler.SuggestLocation)
	}
}

var _ apphttp.Module = (*Module)(nil)
