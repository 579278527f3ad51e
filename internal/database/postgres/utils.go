package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/logger"
)

// SafeRollback rolls back a transaction and logs any error that isn't ErrTxClosed
func SafeRollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error(LogMsgRollbackFailed, "error", err)
	}
}

// parseRarityColumn normalizes a rarity read from a row into its canonical tier.
func parseRarityColumn(raw string) (domain.Rarity, error) {
	r, err := domain.ParseRarity(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrMsgFailedToDecodeRarity, err)
	}
	return r, nil
}
