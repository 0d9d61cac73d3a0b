// Package handler exposes the venues module over HTTP.
package handler

import (
	"net/http"

	"portal_da_fe_backend/internal/geo"
	"portal_da_fe_backend/internal/venues/domain"
	"portal_da_fe_backend/internal/venues/repository"
	"portal_da_fe_backend/internal/venues/service"
	"portal_da_fe_backend/internal/venues/transport"
	"portal_da_fe_backend/platform/httpkit"
	"portal_da_fe_backend/platform/logger"
	"portal_da_fe_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles venue HTTP requests.
type Handler struct {
	service *service.Service
	val     *validator.Validator
	log     *logger.Logger
}

// New creates a venues handler.
func New(svc *service.Service, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{service: svc, val: val, log: log}
}

// List handles GET /venues.
func (h *Handler) List(c *gin.Context) {
	venues, err := h.service.List(c.Request.Context(), c.Query("type"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"venues": transport.FromVenues(venues)})
}

// Categories handles GET /venues/categories.
func (h *Handler) Categories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"categories": categories})
}

// Nearby handles GET /venues/nearby. The observer comes from lat/lng query
// parameters, or from the caller's last reported position when authenticated.
func (h *Handler) Nearby(c *gin.Context) {
	var query transport.NearbyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}
	if (query.Latitude == nil) != (query.Longitude == nil) {
		httpkit.Error(c, http.StatusBadRequest, "lat and lng must be provided together", nil)
		return
	}

	params := service.NearbyParams{
		Type:      query.Type,
		RadiusKm:  query.RadiusKm,
		MinRating: query.MinRating,
		Query:     query.Query,
		Limit:     query.Limit,
	}
	if query.Latitude != nil {
		params.Observer = &geo.Coordinate{Latitude: *query.Latitude, Longitude: *query.Longitude}
	}
	if id := httpkit.GetIdentity(c); id.IsAuthenticated() {
		uid := id.UserID()
		params.UserID = &uid
	}

	observer, ranked, err := h.service.Nearby(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.NearbyResponse{Venues: transport.FromRanked(ranked)}
	if observer != nil {
		resp.Observer = &transport.CoordinateDTO{
			Latitude:  observer.Latitude,
			Longitude: observer.Longitude,
		}
	}
	httpkit.OK(c, resp)
}

// Get handles GET /venues/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid venue id", nil)
		return
	}

	venue, err := h.service.Get(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromVenue(venue))
}

// ShareQR handles GET /venues/:id/qr.
func (h *Handler) ShareQR(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid venue id", nil)
		return
	}

	png, err := h.service.ShareQR(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// Create handles POST /venues.
func (h *Handler) Create(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req transport.CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	var coordinate *geo.Coordinate
	if req.Coordinate != nil {
		coordinate = req.Coordinate.ToCoordinate()
	}

	venue, err := h.service.Create(c.Request.Context(), service.CreateParams{
		Name:         req.Name,
		Category:     req.Category,
		Description:  req.Description,
		Address:      req.NormalizedAddress(),
		Coordinate:   coordinate,
		OpeningHours: req.OpeningHours,
		Phone:        req.Phone,
		Images:       req.NormalizedImages(),
		OwnerID:      identity.UserID(),
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.FromVenue(venue))
}

// Update handles PUT /venues/:id.
func (h *Handler) Update(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid venue id", nil)
		return
	}

	var req transport.UpdateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	params := service.UpdateParams{
		ID:           id,
		Name:         req.Name,
		Category:     req.Category,
		Description:  req.Description,
		OpeningHours: req.OpeningHours,
		Phone:        req.Phone,
		Images:       req.Images,
	}
	if req.Address != nil {
		params.Address = &domain.Address{
			Street: req.Address.Street,
			Number: req.Address.Number,
			City:   req.Address.City,
			State:  req.Address.State,
			Full:   req.Address.Full,
		}
	}
	if req.Coordinate != nil {
		params.Coordinate = req.Coordinate.ToCoordinate()
	}

	venue, err := h.service.Update(c.Request.Context(), identity.UserID(), identity.HasRole("admin"), params)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromVenue(venue))
}

// ListMine handles GET /venues/mine.
func (h *Handler) ListMine(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	venues, err := h.service.ListMine(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"venues": transport.FromVenues(venues)})
}

// ListPending handles GET /admin/venues/pending.
func (h *Handler) ListPending(c *gin.Context) {
	venues, err := h.service.ListPending(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"venues": transport.FromVenues(venues)})
}

// ListAll handles GET /admin/venues.
func (h *Handler) ListAll(c *gin.Context) {
	var query struct {
		Search string `form:"search"`
		Status string `form:"status"`
		Page   int    `form:"page"`
		Limit  int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit <= 0 || query.Limit > 100 {
		query.Limit = 20
	}

	venues, total, err := h.service.ListAll(c.Request.Context(), repository.ListParams{
		Search: query.Search,
		Status: query.Status,
		Offset: (query.Page - 1) * query.Limit,
		Limit:  query.Limit,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.VenueListResponse{
		Venues: transport.FromVenues(venues),
		Total:  total,
		Page:   query.Page,
		Limit:  query.Limit,
	})
}

// Approve handles POST /admin/venues/:id/approve.
func (h *Handler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid venue id", nil)
		return
	}

	venue, err := h.service.Approve(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromVenue(venue))
}

// Reject handles POST /admin/venues/:id/reject.
func (h *Handler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid venue id", nil)
		return
	}

	var req transport.RejectVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	venue, err := h.service.Reject(c.Request.Context(), id, req.Reason)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromVenue(venue))
}

// Delete handles DELETE /admin/venues/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid venue id", nil)
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
