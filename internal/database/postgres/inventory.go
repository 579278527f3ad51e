package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/repository"
)

var _ repository.Inventory = (*InventoryRepository)(nil)

// InventoryRepository stores fumo stacks keyed by (user, display name)
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// CountItems sums quantities across the user's rows
func (r *InventoryRepository) CountItems(ctx context.Context, userID string) (int, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(quantity), 0) FROM inventory_items WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCountItems, err)
	}
	return int(total), nil
}

// UpsertItems merges all credits in a single statement
func (r *InventoryRepository) UpsertItems(ctx context.Context, userID string, credits []domain.InventoryCredit) error {
	if len(credits) == 0 {
		return nil
	}
	names := make([]string, 0, len(credits))
	rarities := make([]string, 0, len(credits))
	quantities := make([]int64, 0, len(credits))
	for _, c := range credits {
		names = append(names, c.Name)
		rarities = append(rarities, string(c.Rarity))
		quantities = append(quantities, int64(c.Quantity))
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO inventory_items (user_id, name, rarity, quantity)
		SELECT $1, t.name, t.rarity, SUM(t.quantity)
		FROM unnest($2::text[], $3::text[], $4::bigint[]) AS t(name, rarity, quantity)
		GROUP BY t.name, t.rarity
		ON CONFLICT (user_id, name) DO UPDATE
		SET quantity = inventory_items.quantity + EXCLUDED.quantity`,
		userID, names, rarities, quantities)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpsertItems, err)
	}
	return nil
}

// ListItems returns rows ordered by name, optionally filtered by rarity
func (r *InventoryRepository) ListItems(ctx context.Context, userID string, rarity domain.Rarity) ([]domain.InventoryEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT name, rarity, quantity
		FROM inventory_items
		WHERE user_id = $1 AND ($2::text = '' OR rarity = $2::text)
		ORDER BY name`, userID, string(rarity))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListItems, err)
	}
	defer rows.Close()

	entries := make([]domain.InventoryEntry, 0)
	for rows.Next() {
		var (
			e        = domain.InventoryEntry{UserID: userID}
			rawTier  string
			quantity int64
		)
		if err := rows.Scan(&e.Name, &rawTier, &quantity); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListItems, err)
		}
		if e.Rarity, err = parseRarityColumn(rawTier); err != nil {
			return nil, err
		}
		e.Quantity = int(quantity)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListItems, err)
	}
	return entries, nil
}
