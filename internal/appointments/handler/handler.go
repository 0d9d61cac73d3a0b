// Package handler exposes the appointments module over HTTP.
package handler

import (
	"net/http"
	"time"

	"portal_da_fe_backend/internal/appointments/repository"
	"portal_da_fe_backend/internal/appointments/service"
	"portal_da_fe_backend/internal/appointments/transport"
	"portal_da_fe_backend/platform/httpkit"
	"portal_da_fe_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Handler handles appointment HTTP requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates an appointments handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// FreeSlots handles GET /venues/:id/slots?date=YYYY-MM-DD.
func (h *Handler) FreeSlots(c *gin.Context) {
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid venue id", nil)
		return
	}

	dateRaw := c.Query("date")
	day, err := time.ParseInLocation(dateLayout, dateRaw, time.Local)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
		return
	}

	slots, err := h.svc.FreeSlots(c.Request.Context(), venueID, day)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.SlotsResponse{
		VenueID: venueID.String(),
		Date:    dateRaw,
		Slots:   slots,
	})
}

// Book handles POST /venues/:id/appointments.
func (h *Handler) Book(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid venue id", nil)
		return
	}

	var req transport.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	appt, err := h.svc.Book(c.Request.Context(), service.BookParams{
		VenueID:     venueID,
		UserID:      identity.UserID(),
		VisitorName: req.VisitorName,
		Phone:       req.Phone,
		ScheduledAt: req.ScheduledAt,
		Note:        req.Note,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.FromAppointment(appt))
}

// ListMine handles GET /appointments.
func (h *Handler) ListMine(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	appointments, err := h.svc.ListMine(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"appointments": transport.FromAppointments(appointments)})
}

// Get handles GET /appointments/:id.
func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid appointment id", nil)
		return
	}

	appt, err := h.svc.Get(c.Request.Context(), identity.UserID(), identity.HasRole("admin"), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromAppointment(appt))
}

// Confirm handles POST /appointments/:id/confirm.
func (h *Handler) Confirm(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid appointment id", nil)
		return
	}

	appt, err := h.svc.Confirm(c.Request.Context(), identity.UserID(), identity.HasRole("admin"), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromAppointment(appt))
}

// Cancel handles POST /appointments/:id/cancel.
func (h *Handler) Cancel(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid appointment id", nil)
		return
	}

	appt, err := h.svc.Cancel(c.Request.Context(), identity.UserID(), identity.HasRole("admin"), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromAppointment(appt))
}

// ListForVenue handles GET /venues/:id/appointments.
func (h *Handler) ListForVenue(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid venue id", nil)
		return
	}

	appointments, err := h.svc.ListForVenue(c.Request.Context(), identity.UserID(), identity.HasRole("admin"), venueID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"appointments": transport.FromAppointments(appointments)})
}

// ReplaceWindows handles PUT /venues/:id/hours.
func (h *Handler) ReplaceWindows(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid venue id", nil)
		return
	}

	var req transport.ReplaceWindowsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	windows := make([]repository.VisitWindow, 0, len(req.Windows))
	for _, w := range req.Windows {
		windows = append(windows, repository.VisitWindow{
			VenueID:     venueID,
			Weekday:     time.Weekday(w.Weekday),
			OpensAt:     w.OpensAt,
			ClosesAt:    w.ClosesAt,
			SlotMinutes: w.SlotMinutes,
		})
	}

	err = h.svc.ReplaceWindows(c.Request.Context(), identity.UserID(), identity.HasRole("admin"), venueID, windows)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"message": "schedule updated"})
}
