package domain

// PityCounterCap bounds every pity counter so long streaks never overflow.
const PityCounterCap int64 = 2_000_000_000

// CurrencyField names a balance column that can be debited or refunded.
type CurrencyField string

const (
	CurrencyCoins CurrencyField = "coins"
	CurrencyGems  CurrencyField = "gems"
)

// PityCounters holds one counter per ultra-rare tier.
type PityCounters map[Rarity]int64

// Clone returns an independent copy.
func (p PityCounters) Clone() PityCounters {
	out := make(PityCounters, len(UltraRarities))
	for _, r := range UltraRarities {
		out[r] = p[r]
	}
	return out
}

// EconomyState is a user's currency, luck and roll counters.
type EconomyState struct {
	UserID                string       `json:"user_id"`
	Coins                 int64        `json:"coins"`
	Gems                  int64        `json:"gems"`
	Luck                  float64      `json:"luck"`
	Pity                  PityCounters `json:"pity"`
	BoostCharge           int          `json:"boost_charge"`
	BoostedMode           bool         `json:"boosted_mode"`
	BoostedRollsRemaining int          `json:"boosted_rolls_remaining"`
	BonusRolls            int          `json:"bonus_rolls"`
	TotalRolls            int64        `json:"total_rolls"`
	UltraUnlocked         bool         `json:"ultra_unlocked"`
}

// PermanentLuck returns the luck scalar, treating an unset value as 1.
func (s *EconomyState) PermanentLuck() float64 {
	if s.Luck <= 0 {
		return 1
	}
	return s.Luck
}

// RollProgress is the counter snapshot persisted once at the end of a roll transaction.
type RollProgress struct {
	Pity                  PityCounters
	BoostCharge           int
	BoostedMode           bool
	BoostedRollsRemaining int
	BonusRolls            int
	TotalRolls            int64
}

// Progress extracts the mutable counters from the state.
func (s *EconomyState) Progress() RollProgress {
	return RollProgress{
		Pity:                  s.Pity.Clone(),
		BoostCharge:           s.BoostCharge,
		BoostedMode:           s.BoostedMode,
		BoostedRollsRemaining: s.BoostedRollsRemaining,
		BonusRolls:            s.BonusRolls,
		TotalRolls:            s.TotalRolls,
	}
}

// Apply writes a progress snapshot back onto the state.
func (s *EconomyState) Apply(p RollProgress) {
	s.Pity = p.Pity.Clone()
	s.BoostCharge = p.BoostCharge
	s.BoostedMode = p.BoostedMode
	s.BoostedRollsRemaining = p.BoostedRollsRemaining
	s.BonusRolls = p.BonusRolls
	s.TotalRolls = p.TotalRolls
}
