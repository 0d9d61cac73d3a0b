// Package adapters contains thin anti-corruption adapters used by the
// composition root to wire modules together without direct cross-module
// imports in the domain layers.
package adapters

import (
	"context"

	"portal_da_fe_backend/internal/venues/service"
	"portal_da_fe_backend/platform/apperr"

	"github.com/google/uuid"
)

// VenuesAdapter exposes venue lookups to the comments, appointments and
// notification modules.
type VenuesAdapter struct {
	svc *service.Service
}

// NewVenuesAdapter wraps the venues service.
func NewVenuesAdapter(svc *service.Service) *VenuesAdapter {
	return &VenuesAdapter{svc: svc}
}

// IsVisible reports whether the venue exists and is publicly visible.
func (a *VenuesAdapter) IsVisible(ctx context.Context, venueID uuid.UUID) (bool, error) {
	_, err := a.svc.Get(ctx, venueID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// VisibleName returns the display name of a publicly visible venue.
func (a *VenuesAdapter) VisibleName(ctx context.Context, venueID uuid.UUID) (string, error) {
	v, err := a.svc.Get(ctx, venueID)
	if err != nil {
		return "", err
	}
	return v.Name, nil
}

// OwnerOf returns the owner of a venue regardless of its moderation status.
func (a *VenuesAdapter) OwnerOf(ctx context.Context, venueID uuid.UUID) (uuid.UUID, error) {
	v, err := a.svc.GetAny(ctx, venueID)
	if err != nil {
		return uuid.Nil, err
	}
	return v.OwnerID, nil
}
