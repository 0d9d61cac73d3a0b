package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"portal_da_fe_backend/internal/geo"
	"portal_da_fe_backend/internal/geoposition"
	"portal_da_fe_backend/internal/venues/domain"
	"portal_da_fe_backend/internal/venues/ranking"
	"portal_da_fe_backend/internal/venues/service"
	"portal_da_fe_backend/internal/venues/transport"
	"portal_da_fe_backend/platform/httpkit"
	"portal_da_fe_backend/platform/logger"
	"portal_da_fe_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// StreamHandler serves the live nearby feed over server-sent events. Each
// connection subscribes to the caller's position updates and re-ranks the
// venue snapshot whenever the position or the snapshot changes.
type StreamHandler struct {
	service *service.Service
	hub     *geoposition.Hub
	val     *validator.Validator
	log     *logger.Logger
	refresh time.Duration
}

// NewStreamHandler creates the SSE handler. refresh bounds how stale the
// venue snapshot may get on a long-lived connection.
func NewStreamHandler(svc *service.Service, hub *geoposition.Hub, val *validator.Validator,
	log *logger.Logger, refresh time.Duration) *StreamHandler {
	if refresh <= 0 {
		refresh = 30 * time.Second
	}
	return &StreamHandler{service: svc, hub: hub, val: val, log: log, refresh: refresh}
}

// NearbyStream handles GET /venues/nearby/stream.
//
// Events:
//
//	nearby          ranked venue list for the current position
//	location_error  the client reported a position failure
func (h *StreamHandler) NearbyStream(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var query transport.NearbyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	criteria, err := ranking.NewCriteria(query.Type, query.RadiusKm, query.MinRating, query.Query)
	if httpkit.HandleError(c, err) {
		return
	}

	limit := query.Limit
	if limit <= 0 {
		limit = h.service.DefaultLimit()
	}

	ctx := c.Request.Context()
	snapshot, err := h.service.VisibleSnapshot(ctx, query.Type)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	updates := h.hub.Subscribe(ctx, identity.UserID())

	var observer *geo.Coordinate
	if fix, ok := h.hub.Latest(identity.UserID()); ok {
		pos := fix.Coordinate
		observer = &pos
	}
	h.emitRanked(c, snapshot, observer, criteria, limit)

	ticker := time.NewTicker(h.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			fresh, err := h.service.VisibleSnapshot(ctx, query.Type)
			if err != nil {
				h.log.Warn("venue snapshot refresh failed", "error", err)
				continue
			}
			snapshot = fresh
			h.emitRanked(c, snapshot, observer, criteria, limit)

		case update, open := <-updates:
			if !open {
				return
			}
			observer = observerAfter(update)
			if update.Err != "" {
				h.emitEvent(c, "location_error", gin.H{"cause": string(update.Err)})
			}
			h.emitRanked(c, snapshot, observer, criteria, limit)
		}
	}
}

// observerAfter resolves the observer position following a hub update. An
// error update invalidates the previous fix entirely: until a fresh fix
// arrives, ranking behaves as if the client never reported a position, so
// both the immediate emit and later snapshot refreshes produce an empty
// list rather than results anchored to a coordinate the client disowned.
func observerAfter(update geoposition.Update) *geo.Coordinate {
	if update.Err != "" || update.Fix == nil {
		return nil
	}
	pos := update.Fix.Coordinate
	return &pos
}

func (h *StreamHandler) emitRanked(c *gin.Context, snapshot []domain.Venue,
	observer *geo.Coordinate, criteria ranking.Criteria, limit int) {
	ranked := h.service.Engine().Rank(snapshot, observer, criteria, limit)

	resp := transport.NearbyResponse{Venues: transport.FromRanked(ranked)}
	if observer != nil {
		resp.Observer = &transport.CoordinateDTO{
			Latitude:  observer.Latitude,
			Longitude: observer.Longitude,
		}
	}
	h.emitEvent(c, "nearby", resp)
}

func (h *StreamHandler) emitEvent(c *gin.Context, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("marshal sse payload", "error", err)
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, data)
	c.Writer.Flush()
}
