package maps

import (
	"net/http"

	"portal_da_fe_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes address lookup for venue registration forms. The frontend
// autocompletes Brazilian addresses from the suggestions and pre-fills the
// coordinate of the one the user picks, so venues enter the catalog already
// rankable.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// LookupAddress handles GET /maps/address-lookup.
func (h *Handler) LookupAddress(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query 'q' must have at least 3 characters", nil)
		return
	}

	suggestions, err := h.svc.SearchAddress(c.Request.Context(), req.Query)
	if err != nil {
		// Upstream geocoder trouble is not the caller's fault; the form
		// degrades to manual address entry.
		httpkit.Error(c, http.StatusBadGateway, "address lookup temporarily unavailable", nil)
		return
	}

	httpkit.OK(c, gin.H{"suggestions": suggestions})
}
