package storage

import (
	"net/http"

	"portal_da_fe_backend/platform/httpkit"
	"portal_da_fe_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// UploadRequest asks for a presigned upload slot.
type UploadRequest struct {
	FileName    string `json:"fileName" binding:"required" validate:"max=200"`
	ContentType string `json:"contentType" binding:"required"`
	SizeBytes   int64  `json:"sizeBytes" binding:"required" validate:"gt=0"`
}

// LocateRequest asks for the EXIF coordinate of an uploaded image.
type LocateRequest struct {
	FileKey string `json:"fileKey" binding:"required" validate:"max=500"`
}

// Handler handles image upload HTTP requests.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates a storage handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// CreateUploadURL handles POST /uploads/venue-images.
func (h *Handler) CreateUploadURL(c *gin.Context) {
	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	presigned, err := h.svc.GenerateUploadURL(c.Request.Context(), req.FileName, req.ContentType, req.SizeBytes)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, presigned)
}

// SuggestLocation handles POST /uploads/venue-images/location.
func (h *Handler) SuggestLocation(c *gin.Context) {
	var req LocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	coordinate, err := h.svc.SuggestCoordinate(c.Request.Context(), req.FileKey)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{
		"latitude":  coordinate.Latitude,
		"longitude": coordinate.Longitude,
	})
}
