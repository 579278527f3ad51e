package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/FumoBot_Go/internal/database/memory"
	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/event"
)

type failingBoosts struct{}

func (failingBoosts) GetActiveBoosts(context.Context, string, time.Time) ([]domain.Boost, error) {
	return nil, nil
}

func (failingBoosts) SaveBoost(context.Context, domain.Boost) error { return nil }

func (failingBoosts) DeleteExpiredBoosts(context.Context, time.Time) (int64, error) {
	return 0, errors.New("db down")
}

func TestBoostPruneJob(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	store := memory.NewStore()
	require.NoError(t, store.SaveBoost(ctx, domain.Boost{UserID: "u1", Source: "potion", ExpiresAt: &past, Effect: domain.LuckEffect{Multiplier: 2}}))
	require.NoError(t, store.SaveBoost(ctx, domain.Boost{UserID: "u1", Source: "shrine", ExpiresAt: &future, Effect: domain.CoinEffect{Multiplier: 2}}))
	require.NoError(t, store.SaveBoost(ctx, domain.Boost{UserID: "u2", Source: "relic", Effect: domain.GemEffect{Multiplier: 2}}))

	bus := event.NewMemoryBus()
	var got []event.BoostsPrunedPayloadV1
	bus.Subscribe(event.BoostsPruned, func(_ context.Context, e event.Event) error {
		got = append(got, e.Payload.(event.BoostsPrunedPayloadV1))
		return nil
	})

	job := NewBoostPruneJob(store, bus)
	job.now = func() time.Time { return now }
	require.NoError(t, job.Process(ctx))

	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].Deleted)
	assert.Equal(t, now, got[0].PrunedAt)

	remaining, err := store.GetActiveBoosts(ctx, "u1", past.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "shrine", remaining[0].Source)
}

func TestBoostPruneJob_RepositoryError(t *testing.T) {
	bus := event.NewMemoryBus()
	published := false
	bus.Subscribe(event.BoostsPruned, func(context.Context, event.Event) error {
		published = true
		return nil
	})

	job := NewBoostPruneJob(failingBoosts{}, bus)
	err := job.Process(context.Background())

	require.Error(t, err)
	assert.False(t, published)
}
