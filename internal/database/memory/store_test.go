package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/FumoBot_Go/internal/domain"
)

func TestDecrementIfSufficient(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.PutEconomyState(domain.EconomyState{UserID: "u1", Coins: 100})

	ok, err := s.DecrementIfSufficient(ctx, "u1", domain.CurrencyCoins, 60)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DecrementIfSufficient(ctx, "u1", domain.CurrencyCoins, 60)
	require.NoError(t, err)
	assert.False(t, ok)

	st, err := s.GetEconomyState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(40), st.Coins)

	_, err = s.DecrementIfSufficient(ctx, "ghost", domain.CurrencyCoins, 1)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDecrementIfSufficient_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.PutEconomyState(domain.EconomyState{UserID: "u1", Coins: 1000})

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.DecrementIfSufficient(ctx, "u1", domain.CurrencyCoins, 100)
			if err == nil && ok {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	st, err := s.GetEconomyState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, succeeded)
	assert.Equal(t, int64(0), st.Coins)
}

func TestEnsureEconomyState(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	created, err := s.EnsureEconomyState(ctx, "u1", 500)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.EnsureEconomyState(ctx, "u1", 9999)
	require.NoError(t, err)
	assert.False(t, created)

	st, err := s.GetEconomyState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(500), st.Coins)
	assert.Len(t, st.Pity, len(domain.UltraRarities))
}

func TestSaveProgress_ConsumesUses(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.PutEconomyState(domain.EconomyState{UserID: "u1"})
	require.NoError(t, s.SaveBoost(ctx, domain.Boost{UserID: "u1", Source: "scroll", Effect: domain.EqualizeEffect{Uses: 3}}))
	require.NoError(t, s.SaveBoost(ctx, domain.Boost{UserID: "u1", Source: "ticket", Effect: domain.MinTierEffect{Tier: domain.RarityEpic, Uses: 1}}))

	progress := domain.RollProgress{TotalRolls: 7, BoostCharge: 7}
	uses := []domain.BoostUse{
		{BoostRef: domain.BoostRef{Kind: domain.BoostKindEqualize, Source: "scroll"}, Uses: 2},
		{BoostRef: domain.BoostRef{Kind: domain.BoostKindMinTier, Source: "ticket"}, Uses: 1},
	}
	require.NoError(t, s.SaveProgress(ctx, "u1", progress, uses))

	boosts, err := s.GetActiveBoosts(ctx, "u1", time.Now())
	require.NoError(t, err)
	require.Len(t, boosts, 1)
	assert.Equal(t, domain.EqualizeEffect{Uses: 1}, boosts[0].Effect)

	st, err := s.GetEconomyState(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), st.TotalRolls)
}

func TestDeleteExpiredBoosts(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Now()
	past := now.Add(-time.Hour)
	require.NoError(t, s.SaveBoost(ctx, domain.Boost{UserID: "u1", Source: "old", ExpiresAt: &past, Effect: domain.LuckEffect{Multiplier: 2}}))
	require.NoError(t, s.SaveBoost(ctx, domain.Boost{UserID: "u1", Source: "perm", Effect: domain.LuckEffect{Multiplier: 2}}))

	n, err := s.DeleteExpiredBoosts(ctx, now)

	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	boosts, _ := s.GetActiveBoosts(ctx, "u1", past.Add(-time.Hour))
	assert.Len(t, boosts, 1)
}
