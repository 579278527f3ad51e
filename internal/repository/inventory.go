package repository

import (
	"context"

	"github.com/osse101/FumoBot_Go/internal/domain"
)

// Inventory defines persistence for per-user fumo stacks
type Inventory interface {
	// CountItems returns the summed quantity across all of the user's rows.
	CountItems(ctx context.Context, userID string) (int, error)
	// UpsertItems merges every credit into the user's rows in one write, summing quantities by name.
	UpsertItems(ctx context.Context, userID string, credits []domain.InventoryCredit) error
	// ListItems returns the user's rows, optionally filtered by rarity ("" for all).
	ListItems(ctx context.Context, userID string, rarity domain.Rarity) ([]domain.InventoryEntry, error)
}
