package repository

import (
	"context"
	"time"

	"github.com/osse101/FumoBot_Go/internal/domain"
)

// Boosts defines persistence for active boost rows
type Boosts interface {
	// GetActiveBoosts returns the user's boosts that have not expired at now.
	GetActiveBoosts(ctx context.Context, userID string, now time.Time) ([]domain.Boost, error)
	// SaveBoost inserts or replaces the row keyed by (user, kind, source).
	SaveBoost(ctx context.Context, boost domain.Boost) error
	// DeleteExpiredBoosts prunes rows whose expiry is before now.
	DeleteExpiredBoosts(ctx context.Context, now time.Time) (int64, error)
}
