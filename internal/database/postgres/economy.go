package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/pity"
	"github.com/osse101/FumoBot_Go/internal/repository"
)

var _ repository.Economy = (*EconomyRepository)(nil)

// EconomyRepository implements the economy repository for PostgreSQL
type EconomyRepository struct {
	db *pgxpool.Pool
}

// NewEconomyRepository creates a new EconomyRepository
func NewEconomyRepository(db *pgxpool.Pool) *EconomyRepository {
	return &EconomyRepository{db: db}
}

const selectEconomyState = `
SELECT user_id, coins, gems, luck, pity, boost_charge, boosted_mode,
       boosted_rolls_remaining, bonus_rolls, total_rolls, ultra_unlocked
FROM economy_states
WHERE user_id = $1`

// GetEconomyState reads a user's balances and counters
func (r *EconomyRepository) GetEconomyState(ctx context.Context, userID string) (*domain.EconomyState, error) {
	var (
		st      domain.EconomyState
		rawPity []byte
	)
	err := r.db.QueryRow(ctx, selectEconomyState, userID).Scan(
		&st.UserID, &st.Coins, &st.Gems, &st.Luck, &rawPity, &st.BoostCharge, &st.BoostedMode,
		&st.BoostedRollsRemaining, &st.BonusRolls, &st.TotalRolls, &st.UltraUnlocked,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetEconomyState, err)
	}

	st.Pity, err = decodePity(rawPity)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// EnsureEconomyState creates the row if missing
func (r *EconomyRepository) EnsureEconomyState(ctx context.Context, userID string, startingCoins int64) (bool, error) {
	rawPity, err := encodePity(pity.New())
	if err != nil {
		return false, err
	}
	tag, err := r.db.Exec(ctx, `
		INSERT INTO economy_states (user_id, coins, pity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING`, userID, startingCoins, rawPity)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToEnsureEconomyState, err)
	}
	return tag.RowsAffected() == 1, nil
}

// DecrementIfSufficient is a single conditional UPDATE; it never drives a balance negative
func (r *EconomyRepository) DecrementIfSufficient(ctx context.Context, userID string, field domain.CurrencyField, amount int64) (bool, error) {
	column, err := currencyColumn(field)
	if err != nil {
		return false, err
	}
	query := fmt.Sprintf(`
		UPDATE economy_states
		SET %[1]s = %[1]s - $2, updated_at = NOW()
		WHERE user_id = $1 AND %[1]s >= $2`, column)

	tag, err := r.db.Exec(ctx, query, userID, amount)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToDebit, err)
	}
	return tag.RowsAffected() == 1, nil
}

// Credit adds amount to a balance
func (r *EconomyRepository) Credit(ctx context.Context, userID string, field domain.CurrencyField, amount int64) error {
	column, err := currencyColumn(field)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		UPDATE economy_states
		SET %[1]s = %[1]s + $2, updated_at = NOW()
		WHERE user_id = $1`, column)

	tag, err := r.db.Exec(ctx, query, userID, amount)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCredit, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SaveProgress writes the counter snapshot and consumes boost uses in one transaction
func (r *EconomyRepository) SaveProgress(ctx context.Context, userID string, progress domain.RollProgress, uses []domain.BoostUse) error {
	rawPity, err := encodePity(progress.Pity)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	tag, err := tx.Exec(ctx, `
		UPDATE economy_states
		SET pity = $2, boost_charge = $3, boosted_mode = $4, boosted_rolls_remaining = $5,
		    bonus_rolls = $6, total_rolls = $7, updated_at = NOW()
		WHERE user_id = $1`,
		userID, rawPity, progress.BoostCharge, progress.BoostedMode, progress.BoostedRollsRemaining,
		progress.BonusRolls, progress.TotalRolls)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveProgress, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	if len(uses) > 0 {
		batch := &pgx.Batch{}
		for _, u := range uses {
			batch.Queue(`
				UPDATE active_boosts
				SET payload = jsonb_set(payload, '{uses}', to_jsonb(COALESCE((payload->>'uses')::int, 0) - $4))
				WHERE user_id = $1 AND kind = $2 AND source = $3`,
				userID, string(u.Kind), u.Source, u.Uses)
		}
		batch.Queue(`
			DELETE FROM active_boosts
			WHERE user_id = $1 AND payload ? 'uses' AND (payload->>'uses')::int <= 0`, userID)
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToConsumeBoost, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

func currencyColumn(field domain.CurrencyField) (string, error) {
	switch field {
	case domain.CurrencyCoins:
		return "coins", nil
	case domain.CurrencyGems:
		return "gems", nil
	default:
		return "", fmt.Errorf("%s: %q", ErrMsgUnknownCurrency, field)
	}
}

func encodePity(p domain.PityCounters) ([]byte, error) {
	raw, err := json.Marshal(p.Clone())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToEncodePity, err)
	}
	return raw, nil
}

func decodePity(raw []byte) (domain.PityCounters, error) {
	out := pity.New()
	if len(raw) == 0 {
		return out, nil
	}
	var stored map[string]int64
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToDecodePity, err)
	}
	for tag, n := range stored {
		r, err := domain.ParseRarity(tag)
		if err != nil || !r.IsUltra() {
			continue
		}
		out[r] = n
	}
	return out, nil
}
