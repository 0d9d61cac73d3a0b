// Package geoposition tracks each user's live location fixes. Clients
// report fixes over HTTP; the hub fans successive fixes out to in-process
// subscribers (the nearby stream) and keeps the latest fix for one-shot
// lookups. A subscription is released when its context is cancelled, so a
// torn-down consumer never leaks a channel.
package geoposition

import (
	"context"
	"sync"
	"time"

	"portal_da_fe_backend/internal/geo"
	"portal_da_fe_backend/platform/logger"

	"github.com/google/uuid"
)

// ErrorCause classifies why a client has no usable position. The ranking
// side only cares about "no fix"; the causes exist for user messaging.
type ErrorCause string

const (
	CausePermissionDenied    ErrorCause = "permission_denied"
	CausePositionUnavailable ErrorCause = "position_unavailable"
	CauseTimeout             ErrorCause = "timeout"
)

// Fix is one reported device position.
type Fix struct {
	Coordinate     geo.Coordinate `json:"coordinate"`
	AccuracyMeters *float64       `json:"accuracyMeters,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}

// Update is what subscribers receive: either a fresh fix or an error state
// that invalidated the previous fix.
type Update struct {
	Fix *Fix       `json:"fix,omitempty"`
	Err ErrorCause `json:"error,omitempty"`
}

type subscriber struct {
	userID uuid.UUID
	mu     sync.Mutex
	closed bool
	ch     chan Update
}

// Hub is the in-process location fan-out. Fixes from a user reach every
// active subscriber for that user, newest-wins when a subscriber lags.
type Hub struct {
	mu     sync.RWMutex
	latest map[uuid.UUID]Fix
	subs   map[uuid.UUID][]*subscriber
	log    *logger.Logger
}

// NewHub creates an empty location hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		latest: make(map[uuid.UUID]Fix),
		subs:   make(map[uuid.UUID][]*subscriber),
		log:    log,
	}
}

// Publish records a user's fix and delivers it to all subscribers.
func (h *Hub) Publish(userID uuid.UUID, fix Fix) {
	if fix.Timestamp.IsZero() {
		fix.Timestamp = time.Now()
	}

	h.mu.Lock()
	h.latest[userID] = fix
	targets := append([]*subscriber(nil), h.subs[userID]...)
	h.mu.Unlock()

	update := Update{Fix: &fix}
	for _, sub := range targets {
		sub.deliver(update)
	}
}

// ReportError clears the user's latest fix and notifies subscribers of the
// cause. Consumers treat the user as having no observer until the next fix.
func (h *Hub) ReportError(userID uuid.UUID, cause ErrorCause) {
	h.mu.Lock()
	delete(h.latest, userID)
	targets := append([]*subscriber(nil), h.subs[userID]...)
	h.mu.Unlock()

	update := Update{Err: cause}
	for _, sub := range targets {
		sub.deliver(update)
	}
}

// Latest returns the user's most recent fix, if any.
func (h *Hub) Latest(userID uuid.UUID) (Fix, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	fix, ok := h.latest[userID]
	return fix, ok
}

// Subscribe returns a channel of the user's future updates. Historical
// fixes are not replayed. The subscription is removed and the channel
// closed when ctx is cancelled.
func (h *Hub) Subscribe(ctx context.Context, userID uuid.UUID) <-chan Update {
	sub := &subscriber{
		userID: userID,
		ch:     make(chan Update, 1),
	}

	h.mu.Lock()
	h.subs[userID] = append(h.subs[userID], sub)
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.remove(sub)
	}()

	return sub.ch
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subs[sub.userID]
	for i, s := range subs {
		if s == sub {
			h.subs[sub.userID] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(h.subs[sub.userID]) == 0 {
		delete(h.subs, sub.userID)
	}

	sub.mu.Lock()
	sub.closed = true
	close(sub.ch)
	sub.mu.Unlock()
}

// deliver pushes an update, displacing a stale buffered one if the
// subscriber has not drained it yet. A lagging nearby stream only ever
// wants the newest position.
func (s *subscriber) deliver(update Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	select {
	case s.ch <- update:
		return
	default:
	}

	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- update:
	default:
	}
}
