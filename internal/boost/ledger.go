package boost

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/FumoBot_Go/internal/concurrency"
	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/logger"
	"github.com/osse101/FumoBot_Go/internal/repository"
	"github.com/osse101/FumoBot_Go/internal/utils"
)

// Ledger reads a user's boosts and folds them into Modifiers.
//
// Compose may persist a refreshed hourly dice, so its caller must hold the user's
// lock (roll transactions do). Preview and Grant take the lock themselves.
type Ledger interface {
	Compose(ctx context.Context, userID string, now time.Time) (Modifiers, error)
	Preview(ctx context.Context, userID string, now time.Time) (Modifiers, []domain.Boost, error)
	List(ctx context.Context, userID string, now time.Time) ([]domain.Boost, error)
	Grant(ctx context.Context, userID, source string, now time.Time) (*domain.Boost, error)
	Definitions() Definitions
}

type ledger struct {
	repo   repository.Boosts
	defs   Definitions
	locker concurrency.Locker
	rnd    func() float64
}

// NewLedger creates a boost ledger backed by repo. locker must be the one roll
// transactions use; a nil locker gets a private LockManager.
func NewLedger(repo repository.Boosts, defs Definitions, locker concurrency.Locker) Ledger {
	return newLedger(repo, defs, locker, utils.RandomFloat)
}

func newLedger(repo repository.Boosts, defs Definitions, locker concurrency.Locker, rnd func() float64) *ledger {
	if defs == nil {
		defs = Definitions{}
	}
	if locker == nil {
		locker = concurrency.NewLockManager()
	}
	return &ledger{repo: repo, defs: defs, locker: locker, rnd: rnd}
}

func (l *ledger) Definitions() Definitions {
	return l.defs
}

// Compose returns the folded modifiers for userID at now, refreshing a stale hourly dice first.
func (l *ledger) Compose(ctx context.Context, userID string, now time.Time) (Modifiers, error) {
	boosts, err := l.List(ctx, userID, now)
	if err != nil {
		return Neutral(), err
	}
	for i := range boosts {
		if dice, ok := boosts[i].Effect.(domain.HourlyDiceEffect); ok {
			boosts[i].Effect = l.refreshDice(ctx, boosts[i], dice, now)
		}
	}
	return Combine(boosts, now), nil
}

// Preview composes the modifiers under the user's lock and returns the rows behind them.
func (l *ledger) Preview(ctx context.Context, userID string, now time.Time) (Modifiers, []domain.Boost, error) {
	unlock, err := l.locker.Lock(ctx, concurrency.UserKey(userID))
	if err != nil {
		return Neutral(), nil, err
	}
	defer unlock()

	mods, err := l.Compose(ctx, userID, now)
	if err != nil {
		return Neutral(), nil, err
	}
	rows, err := l.List(ctx, userID, now)
	if err != nil {
		return Neutral(), nil, err
	}
	return mods, rows, nil
}

// List returns the user's boosts active at now.
func (l *ledger) List(ctx context.Context, userID string, now time.Time) ([]domain.Boost, error) {
	boosts, err := l.repo.GetActiveBoosts(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToGetBoosts, err)
	}
	active := boosts[:0]
	for _, b := range boosts {
		if b.ActiveAt(now) {
			active = append(active, b)
		}
	}
	return active, nil
}

// refreshDice draws a new multiplier when the cached hour is stale and persists it.
// A failed write is logged; the fresh value is still used for this roll.
func (l *ledger) refreshDice(ctx context.Context, b domain.Boost, dice domain.HourlyDiceEffect, now time.Time) domain.HourlyDiceEffect {
	hour := now.Unix() / int64(diceHour/time.Second)
	if dice.Hour == hour && dice.Multiplier > 0 {
		return dice
	}

	fresh := domain.HourlyDiceEffect{
		Hour:       hour,
		Multiplier: DiceMin + l.rnd()*(DiceMax-DiceMin),
	}
	b.Effect = fresh

	log := logger.FromContext(ctx)
	if err := l.repo.SaveBoost(ctx, b); err != nil {
		log.Warn(LogMsgDiceSaveFailed, "user_id", b.UserID, "source", b.Source, "error", err)
	} else {
		log.Debug(LogMsgDiceRefreshed, "user_id", b.UserID, "hour", hour, "multiplier", fresh.Multiplier)
	}
	return fresh
}

// Grant creates or refreshes the boost defined for source. Refreshing resets the expiry,
// adds a stack up to the definition's maximum and tops up limited uses.
func (l *ledger) Grant(ctx context.Context, userID, source string, now time.Time) (*domain.Boost, error) {
	def, ok := l.defs[source]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBoostNotDefined, source)
	}

	// Uses are read then rewritten, so a concurrent roll must not consume in between.
	unlock, err := l.locker.Lock(ctx, concurrency.UserKey(userID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := l.List(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	granted := domain.Boost{UserID: userID, Source: source, Stack: 1, Effect: def.Effect}
	for _, b := range existing {
		if b.Source != source || b.Kind() != def.Effect.Kind() {
			continue
		}
		granted.Stack = b.StackCount() + 1
		if granted.Stack > def.MaxStack {
			granted.Stack = def.MaxStack
		}
		if uses := domain.UsesOf(b.Effect); uses > 0 {
			granted.Effect = domain.WithUses(def.Effect, uses+domain.UsesOf(def.Effect))
		}
		if dice, ok := b.Effect.(domain.HourlyDiceEffect); ok {
			granted.Effect = dice
		}
		break
	}
	if def.Duration > 0 {
		expires := now.Add(def.Duration)
		granted.ExpiresAt = &expires
	}

	if err := l.repo.SaveBoost(ctx, granted); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToSaveBoost, err)
	}
	logger.FromContext(ctx).Info(LogMsgBoostGranted, "user_id", userID, "source", source, "kind", granted.Kind(), "stack", granted.Stack)
	return &granted, nil
}
