// Package handler exposes the comments module over HTTP.
package handler

import (
	"net/http"
	"strconv"

	"portal_da_fe_backend/internal/comments/service"
	"portal_da_fe_backend/internal/comments/transport"
	"portal_da_fe_backend/platform/httpkit"
	"portal_da_fe_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles comment HTTP requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a comments handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListForVenue handles GET /venues/:id/comments.
func (h *Handler) ListForVenue(c *gin.Context) {
	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid venue id", nil)
		return
	}

	cursor, err := transport.DecodeCursor(c.Query("cursor"))
	if httpkit.HandleError(c, err) {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	comments, next, err := h.svc.ListApproved(c.Request.Context(), venueID, cursor, limit)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.CommentPageResponse{
		Comments:   transport.FromComments(comments, false),
		NextCursor: transport.EncodeCursor(next),
	})
}

// Create handles POST /venues/:id/comments.
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

	var req transport.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	comment, err := h.svc.Submit(c.Request.Context(), venueID, identity.UserID(), req.Rating, req.Content)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.FromComment(comment, true))
}

// Delete handles DELETE /comments/:id.
func (h *Handler) Delete(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid comment id", nil)
		return
	}

	err = h.svc.Delete(c.Request.Context(), identity.UserID(), identity.HasRole("admin"), id)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPending handles GET /admin/comments/pending.
func (h *Handler) ListPending(c *gin.Context) {
	comments, err := h.svc.ListPending(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"comments": transport.FromComments(comments, true)})
}

// Moderate handles POST /admin/comments/:id/moderate.
func (h *Handler) Moderate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid comment id", nil)
		return
	}

	var req transport.ModerateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	comment, err := h.svc.Moderate(c.Request.Context(), id, req.Approve, req.Note)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromComment(comment, true))
}
