package geoposition

import (
	"net/http"
	"time"

	"portal_da_fe_backend/internal/geo"
	"portal_da_fe_backend/platform/httpkit"
	"portal_da_fe_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// ReportFixRequest is the payload clients send on every position update.
// Pointers keep zero coordinates (equator, prime meridian) distinguishable
// from missing fields.
type ReportFixRequest struct {
	Latitude       *float64 `json:"latitude" binding:"required" validate:"required,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude" binding:"required" validate:"required,gte=-180,lte=180"`
	AccuracyMeters *float64 `json:"accuracyMeters,omitempty" validate:"omitempty,gte=0"`
}

// ReportErrorRequest marks the client as having no usable position.
type ReportErrorRequest struct {
	Cause string `json:"cause" validate:"required,oneof=permission_denied position_unavailable timeout"`
}

// Handler exposes the location reporting endpoints.
type Handler struct {
	hub *Hub
	val *validator.Validator
}

// NewHandler creates a geoposition handler.
func NewHandler(hub *Hub, val *validator.Validator) *Handler {
	return &Handler{hub: hub, val: val}
}

// ReportFix handles PUT /api/v1/me/location
func (h *Handler) ReportFix(c *gin.Context) {
	var req ReportFixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	coord := geo.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if !coord.Valid() {
		httpkit.Error(c, http.StatusBadRequest, "coordinate out of range", nil)
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	h.hub.Publish(identity.UserID(), Fix{
		Coordinate:     coord,
		AccuracyMeters: req.AccuracyMeters,
		Timestamp:      time.Now(),
	})

	c.Status(http.StatusNoContent)
}

// ReportError handles POST /api/v1/me/location/error
func (h *Handler) ReportError(c *gin.Context) {
	var req ReportErrorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	h.hub.ReportError(identity.UserID(), ErrorCause(req.Cause))
	c.Status(http.StatusNoContent)
}
