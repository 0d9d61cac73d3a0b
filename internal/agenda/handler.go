package agenda

import (
	"net/http"
	"strconv"
	"time"

	"portal_da_fe_backend/platform/httpkit"
	"portal_da_fe_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createEventRequest struct {
	Title       string    `json:"title" binding:"required" validate:"min=3,max=120"`
	Description string    `json:"description" validate:"max=2000"`
	StartsAt    time.Time `json:"startsAt" binding:"required"`
	EndsAt      time.Time `json:"endsAt" binding:"required"`
}

type moderateEventRequest struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note" validate:"max=500"`
}

type eventResponse struct {
	ID          string    `json:"id"`
	VenueID     string    `json:"venueId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// toEventResponse maps a stored entry to its public shape. includeStatus is
// set on owner and moderation views only.
func toEventResponse(e VenueEvent, includeStatus bool) eventResponse {
	resp := eventResponse{
		ID:          e.ID.String(),
		VenueID:     e.VenueID.String(),
		Title:       e.Title,
		Description: e.Description,
		StartsAt:    e.StartsAt,
		EndsAt:      e.EndsAt,
		CreatedAt:   e.CreatedAt,
	}
	if includeStatus {
		resp.Status = string(e.Status)
	}
	return resp
}

func toEventResponses(events []VenueEvent, includeStatus bool) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e, includeStatus))
	}
	return out
}

// Handler handles agenda HTTP requests.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates an agenda handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListForVenue handles GET /venues/:id/events.
func (h *Handler) ListForVenue(c *gin.Context) {
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid venue id", nil)
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	events, err := h.svc.ListUpcoming(c.Request.Context(), venueID, limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"events": toEventResponses(events, false)})
}

// Create handles POST /venues/:id/events.
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid venue id", nil)
		return
	}

	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	event, err := h.svc.Submit(c.Request.Context(), venueID, identity.UserID(),
		identity.HasRole("admin"), req.Title, req.Description, req.StartsAt, req.EndsAt)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, toEventResponse(event, true))
}

// Delete handles DELETE /events/:id.
func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid event id", nil)
		return
	}

	err = h.svc.Delete(c.Request.Context(), identity.UserID(), identity.HasRole("admin"), id)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPending handles GET /admin/events/pending.
func (h *Handler) ListPending(c *gin.Context) {
	events, err := h.svc.ListPending(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"events": toEventResponses(events, true)})
}

// Moderate handles POST /admin/events/:id/moderate.
func (h *Handler) Moderate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid event id", nil)
		return
	}

	var req moderateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	event, err := h.svc.Moderate(c.Request.Context(), id, req.Approve, req.Note)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, toEventResponse(event, true))
}
