// Package inventory credits rolled fumos to users under a capacity limit.
package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/logger"
	"github.com/osse101/FumoBot_Go/internal/repository"
)

// Ledger writes inventory rows.
type Ledger struct {
	repo repository.Inventory
}

// NewLedger creates an inventory ledger.
func NewLedger(repo repository.Inventory) *Ledger {
	return &Ledger{repo: repo}
}

// Credit upserts count copies of name.
func (l *Ledger) Credit(ctx context.Context, userID, name string, rarity domain.Rarity, count int) error {
	return l.CreditBatch(ctx, userID, map[string]domain.InventoryCredit{
		name: {Name: name, Rarity: rarity, Quantity: count},
	})
}

// CreditBatch merges a whole batch into the user's rows with one write.
func (l *Ledger) CreditBatch(ctx context.Context, userID string, credits map[string]domain.InventoryCredit) error {
	rows := make([]domain.InventoryCredit, 0, len(credits))
	total := 0
	for name, c := range credits {
		if c.Quantity <= 0 {
			continue
		}
		c.Name = name
		rows = append(rows, c)
		total += c.Quantity
	}
	if len(rows) == 0 {
		return nil
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	if err := l.repo.UpsertItems(ctx, userID, rows); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToUpsertItems, err)
	}
	logger.FromContext(ctx).Debug(LogMsgItemsCredited, "user_id", userID, "rows", len(rows), "quantity", total)
	return nil
}

// List returns the user's rows, filtered by rarity when it is non-empty.
func (l *Ledger) List(ctx context.Context, userID string, rarity domain.Rarity) ([]domain.InventoryEntry, error) {
	entries, err := l.repo.ListItems(ctx, userID, rarity)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToListItems, err)
	}
	return entries, nil
}

// Accumulate adds one outcome to a pending batch keyed by display name.
func Accumulate(batch map[string]domain.InventoryCredit, outcome domain.RollOutcome) {
	name := outcome.DisplayName()
	c := batch[name]
	c.Name = name
	c.Rarity = outcome.Rarity
	c.Quantity++
	batch[name] = c
}
