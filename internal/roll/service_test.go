package roll

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/FumoBot_Go/internal/boost"
	"github.com/osse101/FumoBot_Go/internal/concurrency"
	"github.com/osse101/FumoBot_Go/internal/database/memory"
	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/event"
	"github.com/osse101/FumoBot_Go/internal/inventory"
	"github.com/osse101/FumoBot_Go/internal/rarity"
	"github.com/osse101/FumoBot_Go/internal/repository"
	"github.com/osse101/FumoBot_Go/internal/variant"
)

const testUser = "u1"

// u=0.99 lands on COMMON at luck 1 and misses every variant.
func constSource(v float64) rarity.RandomSource {
	return rarity.FuncSource(func() float64 { return v })
}

type mapCatalog map[domain.Rarity][]domain.CatalogEntry

func (m mapCatalog) ForRarity(r domain.Rarity) []domain.CatalogEntry { return m[r] }

func fullCatalog() mapCatalog {
	cat := mapCatalog{}
	for _, r := range domain.Rarities {
		cat[r] = []domain.CatalogEntry{{Name: "Reimu(" + string(r) + ")", Rarity: r}}
	}
	return cat
}

type harness struct {
	store  *memory.Store
	locker *concurrency.LockManager
	bus    *event.MemoryBus
	svc    Service
	events []event.Event
	mu     sync.Mutex
}

type harnessOpts struct {
	capacity int
	// guardRepo wraps the store seen by the capacity guard.
	guardRepo func(*memory.Store) repository.Inventory
	rarity   float64
	picker   rarity.RandomSource
	cfg      Config
}

func newHarness(t *testing.T, state domain.EconomyState, opts harnessOpts) *harness {
	t.Helper()
	if opts.rarity == 0 {
		opts.rarity = 0.99
	}
	if opts.picker == nil {
		opts.picker = constSource(0)
	}
	if opts.capacity == 0 {
		opts.capacity = 1000
	}

	h := &harness{store: memory.NewStore(), bus: event.NewMemoryBus()}
	state.UserID = testUser
	h.store.PutEconomyState(state)

	record := func(_ context.Context, e event.Event) error {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.events = append(h.events, e)
		return nil
	}
	h.bus.Subscribe(event.RollCompleted, record)
	h.bus.Subscribe(event.RollFailed, record)

	locker := concurrency.NewLockManager()
	h.locker = locker
	var guardRepo repository.Inventory = h.store
	if opts.guardRepo != nil {
		guardRepo = opts.guardRepo(h.store)
	}
	h.svc = NewService(Deps{
		Economy:  h.store,
		Boosts:   boost.NewLedger(h.store, nil, locker),
		Guard:    inventory.NewGuard(guardRepo, opts.capacity),
		Ledger:   inventory.NewLedger(h.store),
		Locker:   locker,
		Resolver: rarity.NewResolver(constSource(opts.rarity)),
		Variants: variant.NewRoller(constSource(0.99)),
		Picker:   opts.picker,
		Bus:      h.bus,
	}, opts.cfg)
	return h
}

func (h *harness) state(t *testing.T) *domain.EconomyState {
	t.Helper()
	st, err := h.store.GetEconomyState(context.Background(), testUser)
	require.NoError(t, err)
	return st
}

func (h *harness) itemCount(t *testing.T) int {
	t.Helper()
	n, err := h.store.CountItems(context.Background(), testUser)
	require.NoError(t, err)
	return n
}

func (h *harness) eventTypes() []event.Type {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]event.Type, 0, len(h.events))
	for _, e := range h.events {
		out = append(out, e.Type)
	}
	return out
}

func TestRollOnce_DebitsAndCredits(t *testing.T) {
	h := newHarness(t, domain.EconomyState{Coins: 100}, harnessOpts{})

	out, err := h.svc.RollOnce(context.Background(), testUser, fullCatalog())
	require.NoError(t, err)
	assert.Equal(t, domain.RarityCommon, out.Rarity)
	assert.Equal(t, "Reimu(COMMON)", out.DisplayName())

	st := h.state(t)
	assert.Equal(t, int64(0), st.Coins)
	assert.Equal(t, int64(1), st.TotalRolls)
	for _, r := range domain.UltraRarities {
		assert.Equal(t, int64(1), st.Pity[r], "pity for %s", r)
	}

	items, err := h.store.ListItems(context.Background(), testUser, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, []event.Type{event.RollCompleted}, h.eventTypes())
}

func TestRollBatch_InsufficientCoinsMutatesNothing(t *testing.T) {
	h := newHarness(t, domain.EconomyState{Coins: 50}, harnessOpts{})

	_, err := h.svc.RollBatch(context.Background(), testUser, fullCatalog(), 10, false)
	require.ErrorIs(t, err, domain.ErrInsufficientCoins)

	st := h.state(t)
	assert.Equal(t, int64(50), st.Coins)
	assert.Equal(t, int64(0), st.TotalRolls)
	assert.Zero(t, h.itemCount(t))
	assert.Empty(t, h.eventTypes())
}

func TestRollBatch_InvalidCount(t *testing.T) {
	h := newHarness(t, domain.EconomyState{Coins: 1000}, harnessOpts{cfg: Config{MaxBatchSize: 5}})

	for _, n := range []int{0, -1, 6} {
		_, err := h.svc.RollBatch(context.Background(), testUser, fullCatalog(), n, false)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "count %d", n)
	}
	assert.Equal(t, int64(1000), h.state(t).Coins)
}

func TestRollOnce_UnknownUser(t *testing.T) {
	h := newHarness(t, domain.EconomyState{Coins: 100}, harnessOpts{})

	_, err := h.svc.RollOnce(context.Background(), "ghost", fullCatalog())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRollOnce_ConcurrentRollsNeverOverspend(t *testing.T) {
	h := newHarness(t, domain.EconomyState{Coins: 500}, harnessOpts{})

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.svc.RollOnce(context.Background(), testUser, fullCatalog())
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if assert.ErrorIs(t, err, domain.ErrInsufficientCoins) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, attempts-5, rejected)
	st := h.state(t)
	assert.Equal(t, int64(0), st.Coins)
	assert.Equal(t, int64(5), st.TotalRolls)
	assert.Equal(t, 5, h.itemCount(t))
}

func TestRollOnce_StorageFullDoesNotDebit(t *testing.T) {
	h := newHarness(t, domain.EconomyState{Coins: 100}, harnessOpts{capacity: 1})
	require.NoError(t, h.store.UpsertItems(context.Background(), testUser, []domain.InventoryCredit{
		{Name: "Marisa", Rarity: domain.RarityCommon, Quantity: 1},
	}))

	_, err := h.svc.RollOnce(context.Background(), testUser, fullCatalog())
	require.ErrorIs(t, err, domain.ErrStorageFull)
	assert.Equal(t, int64(100), h.state(t).Coins)
	assert.Equal(t, 1, h.itemCount(t))
}

func TestRollBatch_PartialCreditRefundsRemainder(t *testing.T) {
	h := newHarness(t, domain.EconomyState{Coins: 1000}, harnessOpts{capacity: 5})
	require.NoError(t, h.store.UpsertItems(context.Background(), testUser, []domain.InventoryCredit{
		{Name: "Marisa", Rarity: domain.RarityCommon, Quantity: 2},
	}))

	res, err := h.svc.RollBatch(context.Background(), testUser, fullCatalog(), 10, false)
	require.NoError(t, err)

	assert.True(t, res.Partial)
	assert.Equal(t, 10, res.Requested)
	assert.Equal(t, 3, res.Credited)
	assert.Len(t, res.Items, 3)
	assert.Equal(t, int64(300), res.CoinsSpent)

	st := h.state(t)
	assert.Equal(t, int64(700), st.Coins)
	assert.Equal(t, int64(3), st.TotalRolls)
	assert.Equal(t, 5, h.itemCount(t))
}

func TestRollBatch_BonusRollsSpentFirst(t *testing.T) {
	h := newHarness(t, domain.EconomyState{Coins: 200, BonusRolls: 3}, harnessOpts{})

	res, err := h.svc.RollBatch(context.Background(), testUser, fullCatalog(), 5, false)
	require.NoError(t, err)
	assert.Equal(t, 3, res.BonusRollsUsed)
	assert.Equal(t, int64(200), res.CoinsSpent)

	st := h.state(t)
	assert.Equal(t, int64(0), st.Coins)
	assert.Equal(t, 0, st.BonusRolls)
}

func TestRollBatch_PartialRefundsCoinsBeforeBonusRolls(t *testing.T) {
	h := newHarness(t, domain.EconomyState{Coins: 700, BonusRolls: 3}, harnessOpts{capacity: 4})

	res, err := h.svc.RollBatch(context.Background(), testUser, fullCatalog(), 10, false)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Credited)
	assert.Equal(t, 3, res.BonusRollsUsed)
	assert.Equal(t, int64(100), res.CoinsSpent)

	st := h.state(t)
	assert.Equal(t, int64(600), st.Coins)
	assert.Equal(t, 0, st.BonusRolls)
}

func TestRollBatch_BoostedModeCycle(t *testing.T) {
	// 0.9 is COMMON at luck 1 and UNCOMMON at luck 3.
	h := newHarness(t, domain.EconomyState{Coins: 1000}, harnessOpts{
		rarity: 0.9,
		cfg:    Config{BoostChargeThreshold: 3, BoostedModeRolls: 2},
	})

	res, err := h.svc.RollBatch(context.Background(), testUser, fullCatalog(), 6, false)
	require.NoError(t, err)

	got := make([]domain.Rarity, 0, len(res.Items))
	for _, it := range res.Items {
		got = append(got, it.Rarity)
	}
	assert.Equal(t, []domain.Rarity{
		domain.RarityCommon, domain.RarityCommon, domain.RarityCommon,
		domain.RarityUncommon, domain.RarityUncommon,
		domain.RarityCommon,
	}, got)

	st := h.state(t)
	assert.False(t, st.BoostedMode)
	assert.Equal(t, 0, st.BoostedRollsRemaining)
	assert.Equal(t, 1, st.BoostCharge)
	require.NotNil(t, res.Best)
	assert.Equal(t, domain.RarityUncommon, res.Best.Rarity)
}

func TestRollBatch_NoFumoFoundRefundsEverything(t *testing.T) {
	// 0.3 resolves to UNCOMMON, which this catalog lacks.
	h := newHarness(t, domain.EconomyState{Coins: 500}, harnessOpts{rarity: 0.3})
	cat := mapCatalog{domain.RarityCommon: {{Name: "Reimu", Rarity: domain.RarityCommon}}}

	_, err := h.svc.RollBatch(context.Background(), testUser, cat, 5, false)
	require.ErrorIs(t, err, domain.ErrNoFumoFound)

	st := h.state(t)
	assert.Equal(t, int64(500), st.Coins)
	assert.Equal(t, int64(0), st.TotalRolls)
	assert.Zero(t, h.itemCount(t))
	assert.Equal(t, []event.Type{event.RollFailed}, h.eventTypes())
}

func TestRollBatch_PanicBecomesRollFailed(t *testing.T) {
	picker := rarity.FuncSource(func() float64 { panic("picker exploded") })
	h := newHarness(t, domain.EconomyState{Coins: 300}, harnessOpts{picker: picker})

	_, err := h.svc.RollBatch(context.Background(), testUser, fullCatalog(), 3, false)
	require.ErrorIs(t, err, domain.ErrRollFailed)

	assert.Equal(t, int64(300), h.state(t).Coins)
	assert.Zero(t, h.itemCount(t))
}

func TestRollBatch_ConsumesLimitedUseBoost(t *testing.T) {
	h := newHarness(t, domain.EconomyState{Coins: 300}, harnessOpts{})
	require.NoError(t, h.store.SaveBoost(context.Background(), domain.Boost{
		UserID: testUser,
		Source: "rare_ticket",
		Effect: domain.MinTierEffect{Tier: domain.RarityRare, Uses: 2},
	}))

	res, err := h.svc.RollBatch(context.Background(), testUser, fullCatalog(), 3, false)
	require.NoError(t, err)
	assert.Equal(t, domain.RarityRare, res.Items[0].Rarity)
	assert.Equal(t, domain.RarityRare, res.Items[1].Rarity)
	assert.Equal(t, domain.RarityCommon, res.Items[2].Rarity)

	left, err := h.store.GetActiveBoosts(context.Background(), testUser, time.Now())
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestRollOnce_PityForcesUltraTier(t *testing.T) {
	tests := []struct {
		name          string
		ultraUnlocked bool
		wantRarity    domain.Rarity
		wantTriggered bool
		wantCelestial int64
	}{
		{"unlocked forces the tier", true, domain.RarityCelestial, true, 0},
		{"locked ignores pity", false, domain.RarityCommon, false, 90_001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, domain.EconomyState{
				Coins:         100,
				UltraUnlocked: tt.ultraUnlocked,
				Pity: domain.PityCounters{
					domain.RarityCelestial: 90_000,
					domain.RarityAstral:    5,
				},
			}, harnessOpts{})

			out, err := h.svc.RollOnce(context.Background(), testUser, fullCatalog())
			require.NoError(t, err)
			assert.Equal(t, tt.wantRarity, out.Rarity)
			assert.Equal(t, tt.wantTriggered, out.PityTriggered)

			st := h.state(t)
			assert.Equal(t, tt.wantCelestial, st.Pity[domain.RarityCelestial])
			assert.Equal(t, int64(6), st.Pity[domain.RarityAstral])
			assert.Equal(t, int64(1), st.Pity[domain.RarityTranscendent])
			assert.Equal(t, int64(1), st.Pity[domain.RarityEternal])
			assert.Equal(t, int64(1), st.Pity[domain.RarityInfinite])
		})
	}
}

// fillingInventory lets the first count through and fills the inventory to
// capacity before every later count, as a concurrent writer would.
type fillingInventory struct {
	*memory.Store
	fill  int
	calls int
}

func (f *fillingInventory) CountItems(ctx context.Context, userID string) (int, error) {
	f.calls++
	if f.calls > 1 {
		if err := f.Store.UpsertItems(ctx, userID, []domain.InventoryCredit{
			{Name: "Sakuya", Rarity: domain.RarityCommon, Quantity: f.fill},
		}); err != nil {
			return 0, err
		}
	}
	return f.Store.CountItems(ctx, userID)
}

func TestRollOnce_CapacityLostAfterDebitRefunds(t *testing.T) {
	filler := &fillingInventory{fill: 5}
	h := newHarness(t, domain.EconomyState{Coins: 100}, harnessOpts{
		capacity: 5,
		guardRepo: func(s *memory.Store) repository.Inventory {
			filler.Store = s
			return filler
		},
	})

	_, err := h.svc.RollOnce(context.Background(), testUser, fullCatalog())
	require.ErrorIs(t, err, domain.ErrStorageFull)

	st := h.state(t)
	assert.Equal(t, int64(100), st.Coins)
	assert.Equal(t, int64(0), st.TotalRolls)
	assert.Equal(t, 2, filler.calls)

	items, err := h.store.ListItems(context.Background(), testUser, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Sakuya", items[0].Name)
	assert.Equal(t, []event.Type{event.RollFailed}, h.eventTypes())
}

func TestRoll_MixedConcurrentRollsConserveBalance(t *testing.T) {
	const initial int64 = 2000
	h := newHarness(t, domain.EconomyState{Coins: initial}, harnessOpts{})

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		spent    int64
		credited int
	)
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := h.svc.RollOnce(context.Background(), testUser, fullCatalog())
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientCoins)
				return
			}
			mu.Lock()
			spent += DefaultCost
			credited++
			mu.Unlock()
		}()
		go func() {
			defer wg.Done()
			res, err := h.svc.RollBatch(context.Background(), testUser, fullCatalog(), 3, false)
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientCoins)
				return
			}
			mu.Lock()
			spent += res.CoinsSpent
			credited += res.Credited
			mu.Unlock()
		}()
	}
	wg.Wait()

	st := h.state(t)
	assert.Equal(t, initial-spent, st.Coins)
	assert.GreaterOrEqual(t, st.Coins, int64(0))
	assert.Equal(t, credited, h.itemCount(t))
	assert.Equal(t, int64(credited), st.TotalRolls)
}

func TestRollOnce_LockTimeoutKeepsCause(t *testing.T) {
	h := newHarness(t, domain.EconomyState{Coins: 100}, harnessOpts{})

	unlock, err := h.locker.Lock(context.Background(), concurrency.UserKey(testUser))
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = h.svc.RollOnce(ctx, testUser, fullCatalog())
	require.ErrorIs(t, err, domain.ErrRollFailed)
	assert.ErrorIs(t, err, domain.ErrLockNotAcquired)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(100), h.state(t).Coins)
}

// hookedBoosts runs beforeSave ahead of the first SaveBoost.
type hookedBoosts struct {
	repository.Boosts
	once       sync.Once
	beforeSave func()
}

func (b *hookedBoosts) SaveBoost(ctx context.Context, row domain.Boost) error {
	b.once.Do(b.beforeSave)
	return b.Boosts.SaveBoost(ctx, row)
}

func TestGrant_WaitsForInFlightRoll(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.PutEconomyState(domain.EconomyState{UserID: testUser, Coins: 1000})
	ticket := domain.MinTierEffect{Tier: domain.RarityRare, Uses: 2}
	require.NoError(t, store.SaveBoost(ctx, domain.Boost{UserID: testUser, Source: "rare_ticket", Effect: ticket}))

	locker := concurrency.NewLockManager()
	repo := &hookedBoosts{Boosts: store}
	ledger := boost.NewLedger(repo, boost.Definitions{
		"rare_ticket": {Source: "rare_ticket", MaxStack: 5, Effect: ticket},
	}, locker)
	svc := NewService(Deps{
		Economy:  store,
		Boosts:   ledger,
		Guard:    inventory.NewGuard(store, 1000),
		Ledger:   inventory.NewLedger(store),
		Locker:   locker,
		Resolver: rarity.NewResolver(constSource(0.99)),
		Variants: variant.NewRoller(constSource(0.99)),
		Picker:   constSource(0),
	}, Config{})

	// The roll starts between the grant's read and its write.
	rollDone := make(chan error, 1)
	repo.beforeSave = func() {
		go func() {
			_, err := svc.RollBatch(ctx, testUser, fullCatalog(), 2, false)
			rollDone <- err
		}()
		select {
		case err := <-rollDone:
			rollDone <- err
		case <-time.After(100 * time.Millisecond):
		}
	}

	_, err := ledger.Grant(ctx, testUser, "rare_ticket", time.Now())
	require.NoError(t, err)
	require.NoError(t, <-rollDone)

	left, err := store.GetActiveBoosts(ctx, testUser, time.Now())
	require.NoError(t, err)
	require.Len(t, left, 1)
	// 2 held + 2 granted - 2 consumed
	assert.Equal(t, 2, domain.UsesOf(left[0].Effect))
}
