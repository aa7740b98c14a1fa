// Package cache provides the read-through cache for single parcel lookups.
package cache

import (
	"context"

	"github.com/stwalsh4118/landregistry/internal/models"
)

// ParcelCache stores parcels by registry code.
type ParcelCache interface {
	// Get returns the cached parcel and true, or nil and false on a miss.
	Get(ctx context.Context, parcelID string) (*models.LandParcel, bool, error)

	// Set stores the parcel under its registry code.
	Set(ctx context.Context, parcel *models.LandParcel) error

	// Invalidate drops the given registry codes.
	Invalidate(ctx context.Context, parcelIDs ...string) error
}

// Noop is a ParcelCache that never stores anything. It is used when no
// redis URL is configured.
type Noop struct{}

// NewNoop returns a cache that always misses.
func NewNoop() ParcelCache {
	return Noop{}
}

func (Noop) Get(context.Context, string) (*models.LandParcel, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, *models.LandParcel) error {
	return nil
}

func (Noop) Invalidate(context.Context, ...string) error {
	return nil
}
