package repository

import (
	"context"

	"github.com/osse101/FumoBot_Go/internal/domain"
)

// Economy defines the persistence primitives the roll engine needs for user balances and counters
type Economy interface {
	// GetEconomyState is a point read. Unknown users return domain.ErrUserNotFound.
	GetEconomyState(ctx context.Context, userID string) (*domain.EconomyState, error)
	// EnsureEconomyState creates the user's row with startingCoins if it does not exist yet.
	// It reports whether a row was created.
	EnsureEconomyState(ctx context.Context, userID string, startingCoins int64) (bool, error)
	// DecrementIfSufficient atomically subtracts amount when the balance covers it.
	// It reports false without mutating anything when the balance is short.
	DecrementIfSufficient(ctx context.Context, userID string, field domain.CurrencyField, amount int64) (bool, error)
	// Credit adds amount to a balance. Used for refunds.
	Credit(ctx context.Context, userID string, field domain.CurrencyField, amount int64) error
	// SaveProgress writes counters and consumes limited-use boosts in one write.
	SaveProgress(ctx context.Context, userID string, progress domain.RollProgress, uses []domain.BoostUse) error
}
