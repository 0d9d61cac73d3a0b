package favorites

import (
	"net/http"
	"time"

	"portal_da_fe_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type favoriteVenueResponse struct {
	VenueID   string    `json:"venueId"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Address   string    `json:"address,omitempty"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
	Rating    *float64  `json:"rating,omitempty"`
	Image     string    `json:"image,omitempty"`
	SavedAt   time.Time `json:"savedAt"`
}

// Handler handles favorite HTTP requests.
type Handler struct {
	repo *Repo
}

// NewHandler creates a favorites handler.
func NewHandler(repo *Repo) *Handler {
	return &Handler{repo: repo}
}

// Toggle handles POST /favorites/:venueId.
func (h *Handler) Toggle(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	venueID, err := uuid.Parse(c.Param("venueId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid venue id", nil)
		return
	}

	favorited, err := h.repo.Toggle(c.Request.Context(), identity.UserID(), venueID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"venueId": venueID.String(), "favorited": favorited})
}

// List handles GET /favorites.
func (h *Handler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	favorites, err := h.repo.List(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]favoriteVenueResponse, 0, len(favorites))
	for _, f := range favorites {
		item := favoriteVenueResponse{
			VenueID:  f.VenueID.String(),
			Name:     f.Name,
			Category: f.Category,
			Address:  f.AddressFull,
			Rating:   f.Rating,
			Image:    f.Image,
			SavedAt:  f.SavedAt,
		}
		if f.Coordinate != nil {
			lat, lng := f.Coordinate.Latitude, f.Coordinate.Longitude
			item.Latitude, item.Longitude = &lat, &lng
		}
		out = append(out, item)
	}
	httpkit.OK(c, gin.H{"favorites": out})
}

// ListIDs handles GET /favorites/ids.
func (h *Handler) ListIDs(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	ids, err := h.repo.IDs(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	httpkit.OK(c, gin.H{"venueIds": out})
}
