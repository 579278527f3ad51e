package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/repository"
)

var _ repository.Boosts = (*BoostRepository)(nil)

// BoostRepository stores active boost rows keyed by (user, kind, source)
type BoostRepository struct {
	db *pgxpool.Pool
}

// NewBoostRepository creates a new BoostRepository
func NewBoostRepository(db *pgxpool.Pool) *BoostRepository {
	return &BoostRepository{db: db}
}

// GetActiveBoosts returns unexpired rows ordered by kind then source
func (r *BoostRepository) GetActiveBoosts(ctx context.Context, userID string, now time.Time) ([]domain.Boost, error) {
	rows, err := r.db.Query(ctx, `
		SELECT kind, source, payload, stack, expires_at
		FROM active_boosts
		WHERE user_id = $1 AND (expires_at IS NULL OR expires_at > $2)
		ORDER BY kind, source`, userID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBoosts, err)
	}
	defer rows.Close()

	var boosts []domain.Boost
	for rows.Next() {
		var (
			kind    string
			payload []byte
			b       = domain.Boost{UserID: userID}
		)
		if err := rows.Scan(&kind, &b.Source, &payload, &b.Stack, &b.ExpiresAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBoosts, err)
		}
		b.Effect, err = domain.DecodeEffect(domain.BoostKind(kind), payload)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToDecodeBoost, err)
		}
		boosts = append(boosts, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBoosts, err)
	}
	return boosts, nil
}

// SaveBoost inserts or replaces a row
func (r *BoostRepository) SaveBoost(ctx context.Context, b domain.Boost) error {
	kind, payload, err := domain.EncodeEffect(b.Effect)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToEncodeEffect, err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO active_boosts (user_id, kind, source, payload, stack, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, kind, source) DO UPDATE
		SET payload = EXCLUDED.payload, stack = EXCLUDED.stack, expires_at = EXCLUDED.expires_at`,
		b.UserID, string(kind), b.Source, payload, b.StackCount(), b.ExpiresAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveBoost, err)
	}
	return nil
}

// DeleteExpiredBoosts prunes rows that expired at or before now
func (r *BoostRepository) DeleteExpiredBoosts(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM active_boosts WHERE expires_at IS NOT NULL AND expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToPruneBoosts, err)
	}
	return tag.RowsAffected(), nil
}
