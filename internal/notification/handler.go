package notification

import (
	"net/http"
	"strconv"
	"time"

	"portal_da_fe_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

type notificationResponse struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	VenueID   string     `json:"venueId,omitempty"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type preferencesPayload struct {
	EmailEnabled bool `json:"emailEnabled"`
	InAppEnabled bool `json:"inAppEnabled"`
}

func toNotificationResponse(n Notification) notificationResponse {
	resp := notificationResponse{
		ID:        n.ID.String(),
		Kind:      n.Kind,
		Title:     n.Title,
		Body:      n.Body,
		Read:      n.Read(),
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if n.VenueID != nil {
		resp.VenueID = n.VenueID.String()
	}
	return resp
}

// FeedHandler exposes the in-app notification center: the feed itself,
// read state, and per-user delivery preferences.
type FeedHandler struct {
	store Store
}

// NewFeedHandler creates the notification feed handler.
func NewFeedHandler(store Store) *FeedHandler {
	return &FeedHandler{store: store}
}

// List handles GET /notifications.
func (h *FeedHandler) List(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	unreadOnly := c.Query("unread") == "true"
	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit <= 0 || limit > maxFeedLimit {
		limit = defaultFeedLimit
	}

	notifications, err := h.store.ListByUser(c.Request.Context(), identity.UserID(), unreadOnly, limit)
	if httpkit.HandleError(c, err) {
		return
	}
	unread, err := h.store.CountUnread(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	out := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, toNotificationResponse(n))
	}
	httpkit.OK(c, gin.H{"notifications": out, "unreadCount": unread})
}

// MarkRead handles POST /notifications/:id/read.
func (h *FeedHandler) MarkRead(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid notification id", nil)
		return
	}

	if err := h.store.MarkRead(c.Request.Context(), identity.UserID(), id); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead handles POST /notifications/read-all.
func (h *FeedHandler) MarkAllRead(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if err := h.store.MarkAllRead(c.Request.Context(), identity.UserID()); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPreferences handles GET /notifications/preferences.
func (h *FeedHandler) GetPreferences(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	prefs, err := h.store.GetPreferences(c.Request.Context(), identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, preferencesPayload{EmailEnabled: prefs.EmailEnabled, InAppEnabled: prefs.InAppEnabled})
}

// UpdatePreferences handles PUT /notifications/preferences.
func (h *FeedHandler) UpdatePreferences(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req preferencesPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	prefs := Preferences{EmailEnabled: req.EmailEnabled, InAppEnabled: req.InAppEnabled}
	if err := h.store.SavePreferences(c.Request.Context(), identity.UserID(), prefs); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, req)
}
