// Package memory is an in-process implementation of the repository ports.
// It backs the single-instance deployment and the engine's tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/pity"
	"github.com/osse101/FumoBot_Go/internal/repository"
)

var (
	_ repository.Economy   = (*Store)(nil)
	_ repository.Boosts    = (*Store)(nil)
	_ repository.Inventory = (*Store)(nil)
)

type boostKey struct {
	userID string
	kind   domain.BoostKind
	source string
}

// Store keeps all state behind one mutex.
type Store struct {
	mu        sync.Mutex
	economy   map[string]*domain.EconomyState
	boosts    map[boostKey]domain.Boost
	inventory map[string]map[string]domain.InventoryEntry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		economy:   make(map[string]*domain.EconomyState),
		boosts:    make(map[boostKey]domain.Boost),
		inventory: make(map[string]map[string]domain.InventoryEntry),
	}
}

// PutEconomyState replaces a user's state. Used for seeding.
func (s *Store) PutEconomyState(state domain.EconomyState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state.Pity == nil {
		state.Pity = pity.New()
	}
	state.Pity = state.Pity.Clone()
	s.economy[state.UserID] = &state
}

func (s *Store) GetEconomyState(_ context.Context, userID string) (*domain.EconomyState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.economy[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *st
	out.Pity = st.Pity.Clone()
	return &out, nil
}

func (s *Store) EnsureEconomyState(_ context.Context, userID string, startingCoins int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.economy[userID]; ok {
		return false, nil
	}
	s.economy[userID] = &domain.EconomyState{UserID: userID, Coins: startingCoins, Luck: 1, Pity: pity.New()}
	return true, nil
}

func (s *Store) DecrementIfSufficient(_ context.Context, userID string, field domain.CurrencyField, amount int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.economy[userID]
	if !ok {
		return false, domain.ErrUserNotFound
	}
	balance, err := balanceOf(st, field)
	if err != nil {
		return false, err
	}
	if *balance < amount {
		return false, nil
	}
	*balance -= amount
	return true, nil
}

func (s *Store) Credit(_ context.Context, userID string, field domain.CurrencyField, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.economy[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	balance, err := balanceOf(st, field)
	if err != nil {
		return err
	}
	*balance += amount
	return nil
}

func (s *Store) SaveProgress(_ context.Context, userID string, progress domain.RollProgress, uses []domain.BoostUse) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.economy[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	st.Apply(progress)

	for _, u := range uses {
		key := boostKey{userID: userID, kind: u.Kind, source: u.Source}
		b, ok := s.boosts[key]
		if !ok {
			continue
		}
		left := domain.UsesOf(b.Effect) - u.Uses
		if left <= 0 {
			delete(s.boosts, key)
			continue
		}
		b.Effect = domain.WithUses(b.Effect, left)
		s.boosts[key] = b
	}
	return nil
}

func balanceOf(st *domain.EconomyState, field domain.CurrencyField) (*int64, error) {
	switch field {
	case domain.CurrencyCoins:
		return &st.Coins, nil
	case domain.CurrencyGems:
		return &st.Gems, nil
	default:
		return nil, domain.ErrInvalidInput
	}
}

func (s *Store) GetActiveBoosts(_ context.Context, userID string, now time.Time) ([]domain.Boost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Boost, 0)
	for key, b := range s.boosts {
		if key.userID == userID && b.ActiveAt(now) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind() != out[j].Kind() {
			return out[i].Kind() < out[j].Kind()
		}
		return out[i].Source < out[j].Source
	})
	return out, nil
}

func (s *Store) SaveBoost(_ context.Context, b domain.Boost) error {
	if b.Effect == nil {
		return domain.ErrInvalidBoost
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boosts[boostKey{userID: b.UserID, kind: b.Kind(), source: b.Source}] = b
	return nil
}

func (s *Store) DeleteExpiredBoosts(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for key, b := range s.boosts {
		if !b.ActiveAt(now) {
			delete(s.boosts, key)
			n++
		}
	}
	return n, nil
}

func (s *Store) CountItems(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, e := range s.inventory[userID] {
		total += e.Quantity
	}
	return total, nil
}

func (s *Store) UpsertItems(_ context.Context, userID string, credits []domain.InventoryCredit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.inventory[userID]
	if !ok {
		rows = make(map[string]domain.InventoryEntry)
		s.inventory[userID] = rows
	}
	for _, c := range credits {
		e := rows[c.Name]
		e.UserID = userID
		e.Name = c.Name
		e.Rarity = c.Rarity
		e.Quantity += c.Quantity
		rows[c.Name] = e
	}
	return nil
}

func (s *Store) ListItems(_ context.Context, userID string, rarity domain.Rarity) ([]domain.InventoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.InventoryEntry, 0, len(s.inventory[userID]))
	for _, e := range s.inventory[userID] {
		if rarity == "" || e.Rarity == rarity {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Ping satisfies the readiness check.
func (s *Store) Ping(context.Context) error {
	return nil
}
