// Package roll runs roll transactions: lock, debit, resolve, credit, commit.
package roll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/FumoBot_Go/internal/boost"
	"github.com/osse101/FumoBot_Go/internal/catalog"
	"github.com/osse101/FumoBot_Go/internal/concurrency"
	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/event"
	"github.com/osse101/FumoBot_Go/internal/inventory"
	"github.com/osse101/FumoBot_Go/internal/logger"
	"github.com/osse101/FumoBot_Go/internal/rarity"
	"github.com/osse101/FumoBot_Go/internal/repository"
	"github.com/osse101/FumoBot_Go/internal/variant"
)

// Config holds the economy constants of a roll.
type Config struct {
	Cost                 int64
	MaxBatchSize         int
	BoostChargeThreshold int
	BoostedModeRolls     int
	BoostedModeLuck      float64
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.Cost <= 0 {
		c.Cost = DefaultCost
	}
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = DefaultMaxBatchSize
	}
	if c.BoostChargeThreshold <= 0 {
		c.BoostChargeThreshold = DefaultBoostChargeThreshold
	}
	if c.BoostedModeRolls <= 0 {
		c.BoostedModeRolls = DefaultBoostedModeRolls
	}
	if c.BoostedModeLuck <= 0 {
		c.BoostedModeLuck = DefaultBoostedModeLuck
	}
	return c
}

// BatchResult is the outcome of a committed batch.
type BatchResult struct {
	Items          []domain.RollOutcome `json:"items"`
	Best           *domain.RollOutcome  `json:"best,omitempty"`
	Partial        bool                 `json:"partial"`
	Requested      int                  `json:"requested"`
	Credited       int                  `json:"credited"`
	CoinsSpent     int64                `json:"coins_spent"`
	BonusRollsUsed int                  `json:"bonus_rolls_used"`
	CapacityStatus inventory.Admission  `json:"capacity_status"`
}

// Service is the roll transaction boundary.
type Service interface {
	RollOnce(ctx context.Context, userID string, cat catalog.Provider) (*domain.RollOutcome, error)
	RollBatch(ctx context.Context, userID string, cat catalog.Provider, count int, isAutoRoll bool) (*BatchResult, error)
	MaxBatchSize() int
}

// Deps are the collaborators of the roll service.
type Deps struct {
	Economy  repository.Economy
	Boosts   boost.Ledger
	Guard    *inventory.Guard
	Ledger   *inventory.Ledger
	Locker   concurrency.Locker
	Resolver *rarity.Resolver
	Variants *variant.Roller
	Picker   rarity.RandomSource
	Bus      event.Bus
}

type service struct {
	economy  repository.Economy
	boosts   boost.Ledger
	guard    *inventory.Guard
	ledger   *inventory.Ledger
	locker   concurrency.Locker
	resolver *rarity.Resolver
	variants *variant.Roller
	picker   rarity.RandomSource
	bus      event.Bus
	cfg      Config
	now      func() time.Time
}

// NewService creates a roll service. Nil resolver, roller, picker and bus get defaults.
func NewService(deps Deps, cfg Config) Service {
	s := &service{
		economy:  deps.Economy,
		boosts:   deps.Boosts,
		guard:    deps.Guard,
		ledger:   deps.Ledger,
		locker:   deps.Locker,
		resolver: deps.Resolver,
		variants: deps.Variants,
		picker:   deps.Picker,
		bus:      deps.Bus,
		cfg:      cfg.withDefaults(),
		now:      time.Now,
	}
	if s.resolver == nil {
		s.resolver = rarity.NewResolver(nil)
	}
	if s.variants == nil {
		s.variants = variant.NewRoller(nil)
	}
	if s.picker == nil {
		s.picker = rarity.DefaultSource
	}
	if s.bus == nil {
		s.bus = event.NopBus{}
	}
	return s
}

func (s *service) MaxBatchSize() int {
	return s.cfg.MaxBatchSize
}

// RollOnce rolls a single unit. Capacity for one item is required up front.
func (s *service) RollOnce(ctx context.Context, userID string, cat catalog.Provider) (*domain.RollOutcome, error) {
	res, err := s.execute(ctx, userID, cat, 1, false)
	if err != nil {
		return nil, err
	}
	return &res.Items[0], nil
}

// RollBatch rolls count units as one transaction. When capacity runs out the
// admissible prefix is credited, the rest refunded, and Partial is set.
func (s *service) RollBatch(ctx context.Context, userID string, cat catalog.Provider, count int, isAutoRoll bool) (*BatchResult, error) {
	if count < 1 || count > s.cfg.MaxBatchSize {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", domain.ErrInvalidInput, s.cfg.MaxBatchSize)
	}
	return s.execute(ctx, userID, cat, count, isAutoRoll)
}

// txn is the mutable bookkeeping of one transaction.
type txn struct {
	userID   string
	count    int
	auto     bool
	phase    phase
	pay      payment
	refunded int64
	log      *slog.Logger
}

func (t *txn) enter(p phase) {
	t.phase = p
	t.log.Debug(LogMsgPhase, "user_id", t.userID, "phase", string(p))
}

// unit is one resolved roll plus the progress snapshot after it.
type unit struct {
	outcome  domain.RollOutcome
	progress domain.RollProgress
	uses     map[domain.BoostRef]int
}

func (s *service) execute(ctx context.Context, userID string, cat catalog.Provider, count int, auto bool) (res *BatchResult, err error) {
	if userID == "" || cat == nil {
		return nil, fmt.Errorf("%w: user and catalog are required", domain.ErrInvalidInput)
	}

	t := &txn{userID: userID, count: count, auto: auto, phase: phaseIdle, log: logger.FromContext(ctx)}

	unlock, lockErr := s.locker.Lock(ctx, concurrency.UserKey(userID))
	if lockErr != nil {
		return nil, domain.WrapRollError(domain.RollErrRollFailed, lockErr, ErrDetailLock, lockErr)
	}
	defer unlock()
	t.enter(phaseLocked)

	// Everything after the debit must refund on failure, including panics.
	defer func() {
		if r := recover(); r != nil {
			t.log.Error(LogMsgRollPanic, "user_id", userID, "panic", r)
			err = domain.NewRollError(domain.RollErrRollFailed, ErrDetailPanic, r)
			res = nil
		}
		if err != nil && t.phase.refundable() {
			s.rollback(ctx, t, err)
		}
	}()

	pre, err := s.guard.CanAdmit(ctx, userID, count)
	if err != nil {
		return nil, domain.NewRollError(domain.RollErrRollFailed, ErrDetailCapacity, err)
	}
	if pre.Admissible == 0 {
		return nil, domain.NewRollError(domain.RollErrStorageFull, ErrDetailStorageFull, pre.Current, pre.Capacity)
	}

	state, mods, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	t.pay = s.cfg.plan(count, state.BonusRolls)
	if state.Coins < t.pay.cost {
		return nil, domain.NewRollError(domain.RollErrInsufficientCoins, ErrDetailInsufficient, t.pay.cost, state.Coins)
	}
	if t.pay.cost > 0 {
		ok, debitErr := s.economy.DecrementIfSufficient(ctx, userID, domain.CurrencyCoins, t.pay.cost)
		if debitErr != nil {
			return nil, domain.NewRollError(domain.RollErrRollFailed, ErrDetailDebit, debitErr)
		}
		if !ok {
			return nil, domain.NewRollError(domain.RollErrInsufficientCoins, ErrDetailInsufficient, t.pay.cost, state.Coins)
		}
	}
	t.enter(phaseDebited)

	resolvable := count
	if pre.Admissible < resolvable {
		resolvable = pre.Admissible
	}

	t.enter(phaseResolving)
	units, err := s.resolve(state, mods, cat, resolvable, t.pay.free)
	if err != nil {
		return nil, err
	}

	t.enter(phaseCommitting)
	post, err := s.guard.CanAdmit(ctx, userID, len(units))
	if err != nil {
		return nil, domain.NewRollError(domain.RollErrRollFailed, ErrDetailCapacity, err)
	}
	credited := post.Admissible
	if credited == 0 {
		return nil, domain.NewRollError(domain.RollErrStorageFull, ErrDetailCapacityRace)
	}
	units = units[:credited]

	batch := make(map[string]domain.InventoryCredit, credited)
	for _, u := range units {
		inventory.Accumulate(batch, u.outcome)
	}
	if err := s.ledger.CreditBatch(ctx, userID, batch); err != nil {
		return nil, domain.NewRollError(domain.RollErrRollFailed, ErrDetailCredit, err)
	}

	// Inventory is credited; from here the transaction only settles.
	t.enter(phaseDone)
	refundCoins := s.cfg.refundFor(t.pay, credited)
	if refundCoins > 0 {
		s.refund(ctx, t, refundCoins)
	}

	last := units[credited-1]
	if err := s.economy.SaveProgress(ctx, userID, last.progress, usesList(last.uses)); err != nil {
		t.log.Error(LogMsgProgressSaveFailed, "user_id", userID, "error", err)
	}

	res = s.summarize(t, units, credited, post)
	t.log.Info(LogMsgRollCommitted,
		"user_id", userID,
		"requested", count,
		"credited", credited,
		"partial", res.Partial,
		"coins_spent", res.CoinsSpent,
		"auto_roll", auto)
	s.publish(ctx, event.NewRollCompletedEvent(s.completedPayload(t, res, units), auto))
	return res, nil
}

// load reads the economy state and composes boosts concurrently.
func (s *service) load(ctx context.Context, userID string) (*domain.EconomyState, boost.Modifiers, error) {
	var (
		state *domain.EconomyState
		mods  boost.Modifiers
	)
	now := s.now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		state, err = s.economy.GetEconomyState(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		mods, err = s.boosts.Compose(gctx, userID, now)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, mods, err
		}
		return nil, mods, domain.NewRollError(domain.RollErrRollFailed, ErrDetailState, err)
	}
	if state.Pity == nil {
		state.Pity = domain.PityCounters{}
	}
	return state, mods, nil
}

// resolve produces n units in memory against a local copy of the counters and
// limited-use boosts. free of the units are paid by bonus rolls.
func (s *service) resolve(state *domain.EconomyState, mods boost.Modifiers, cat catalog.Provider, n, free int) ([]unit, error) {
	progress := state.Progress()
	uses := make(map[domain.BoostRef]int)

	var equalize *boost.LimitedUse
	if mods.Equalize != nil {
		eq := *mods.Equalize
		equalize = &eq
	}
	var floor *boost.TierFloor
	if mods.MinTier != nil {
		f := *mods.MinTier
		floor = &f
	}

	units := make([]unit, 0, n)
	for i := 0; i < n; i++ {
		luck := state.PermanentLuck() * mods.LuckFor(progress.TotalRolls+1) * s.cfg.cycleLuck(progress)

		r := s.resolver.Resolve(rarity.Input{
			Pity:          progress.Pity,
			UltraUnlocked: state.UltraUnlocked,
			Luck:          luck,
			Equalize:      equalize,
			MinTier:       floor,
		})
		if r.Consumed != nil {
			uses[*r.Consumed]++
			if equalize != nil && equalize.Ref == *r.Consumed {
				equalize.Uses--
			}
			if floor != nil && floor.Ref == *r.Consumed {
				floor.Uses--
			}
		}

		entries := cat.ForRarity(r.Rarity)
		if len(entries) == 0 {
			return nil, domain.NewRollError(domain.RollErrNoFumoFound, ErrDetailNoFumo, r.Rarity)
		}
		idx := int(s.picker.Float64() * float64(len(entries)))
		if idx >= len(entries) {
			idx = len(entries) - 1
		}

		v := s.variants.Roll(mods)
		outcome := domain.RollOutcome{
			Rarity:         r.Rarity,
			BaseVariant:    v.Base,
			SpecialVariant: v.Special,
			Entry:          entries[idx],
			PityTriggered:  r.PityTriggered,
		}

		s.cfg.advance(&progress, r.Rarity)
		if i < free {
			progress.BonusRolls--
		}

		snapshot := progress
		snapshot.Pity = progress.Pity.Clone()
		snapUses := make(map[domain.BoostRef]int, len(uses))
		for k, v := range uses {
			snapUses[k] = v
		}
		units = append(units, unit{outcome: outcome, progress: snapshot, uses: snapUses})
	}
	return units, nil
}

// rollback refunds everything debited and records the failure.
func (s *service) rollback(ctx context.Context, t *txn, cause error) {
	if t.pay.cost > 0 {
		s.refund(ctx, t, t.pay.cost)
	}
	t.enter(phaseRolledBack)
	t.log.Warn(LogMsgRollRolledBack, "user_id", t.userID, "refunded", t.refunded, "error", cause)

	kind := domain.RollErrRollFailed
	var rollErr *domain.RollError
	if errors.As(cause, &rollErr) {
		kind = rollErr.Kind
	}
	s.publish(ctx, event.NewRollFailedEvent(t.userID, kind, t.refunded))
}

// refund credits coins back. It runs even when ctx is cancelled.
func (s *service) refund(ctx context.Context, t *txn, coins int64) {
	if err := s.economy.Credit(context.WithoutCancel(ctx), t.userID, domain.CurrencyCoins, coins); err != nil {
		t.log.Error(LogMsgRefundFailed, "user_id", t.userID, "amount", coins, "error", err)
		return
	}
	t.refunded += coins
}

func (s *service) summarize(t *txn, units []unit, credited int, capacity inventory.Admission) *BatchResult {
	res := &BatchResult{
		Items:          make([]domain.RollOutcome, 0, len(units)),
		Partial:        credited < t.count,
		Requested:      t.count,
		Credited:       credited,
		CoinsSpent:     t.pay.cost - t.refunded,
		CapacityStatus: capacity,
	}
	res.BonusRollsUsed = t.pay.free
	if credited < res.BonusRollsUsed {
		res.BonusRollsUsed = credited
	}

	for i := range units {
		res.Items = append(res.Items, units[i].outcome)
		if res.Best == nil || units[i].outcome.BetterThan(*res.Best) {
			best := units[i].outcome
			res.Best = &best
		}
	}
	return res
}

func (s *service) completedPayload(t *txn, res *BatchResult, units []unit) event.RollCompletedPayloadV1 {
	p := event.RollCompletedPayloadV1{
		UserID:         t.userID,
		Requested:      res.Requested,
		Credited:       res.Credited,
		Partial:        res.Partial,
		CoinsSpent:     res.CoinsSpent,
		BonusRollsUsed: res.BonusRollsUsed,
		Rarities:       make(map[domain.Rarity]int),
		Best:           res.Best,
	}
	for _, u := range units {
		p.Rarities[u.outcome.Rarity]++
		if u.outcome.PityTriggered {
			p.PityTriggers = append(p.PityTriggers, u.outcome.Rarity)
		}
	}
	return p
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}

func usesList(m map[domain.BoostRef]int) []domain.BoostUse {
	out := make([]domain.BoostUse, 0, len(m))
	for ref, n := range m {
		out = append(out, domain.BoostUse{BoostRef: ref, Uses: n})
	}
	return out
}
