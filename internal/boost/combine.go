package boost

import (
	"math"
	"sort"
	"time"

	"github.com/osse101/FumoBot_Go/internal/domain"
)

// LimitedUse references a consumable override and its remaining uses.
type LimitedUse struct {
	Ref  domain.BoostRef `json:"ref"`
	Uses int             `json:"uses"`
}

// TierFloor is a consumable "at least this tier" override.
type TierFloor struct {
	LimitedUse
	Tier domain.Rarity `json:"tier"`
}

// NthGate applies Multiplier on lifetime roll numbers divisible by Every.
type NthGate struct {
	Every      int     `json:"every"`
	Multiplier float64 `json:"multiplier"`
}

// Modifiers is the folded view of a user's active boosts.
// Luck excludes the permanent scalar, boosted mode and Nth-roll gates; those depend
// on per-roll counters and are applied by the resolver through LuckFor.
type Modifiers struct {
	Luck         float64     `json:"luck"`
	Coin         float64     `json:"coin"`
	Gem          float64     `json:"gem"`
	VariantLuck  float64     `json:"variant_luck"`
	EveryNth     []NthGate   `json:"every_nth,omitempty"`
	Equalize     *LimitedUse `json:"equalize,omitempty"`
	MinTier      *TierFloor  `json:"min_tier,omitempty"`
	GlitchChance float64     `json:"glitch_chance"`
	VoidChance   float64     `json:"void_chance"`
}

// Neutral returns modifiers equivalent to having no boosts.
func Neutral() Modifiers {
	return Modifiers{Luck: 1, Coin: 1, Gem: 1, VariantLuck: 1}
}

// LuckFor returns the boost luck for the given lifetime roll number (1-based),
// including every Nth-roll gate that fires on it.
func (m Modifiers) LuckFor(rollNumber int64) float64 {
	luck := m.Luck
	for _, g := range m.EveryNth {
		if g.Every > 0 && rollNumber > 0 && rollNumber%int64(g.Every) == 0 {
			luck *= g.Multiplier
		}
	}
	return luck
}

// Combine folds boosts active at now into Modifiers. Same-kind multipliers combine
// multiplicatively; a stack of s applies a multiplier s times.
func Combine(boosts []domain.Boost, now time.Time) Modifiers {
	m := Neutral()

	// Deterministic override selection regardless of storage order.
	sorted := make([]domain.Boost, len(boosts))
	copy(sorted, boosts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Kind() != sorted[j].Kind() {
			return sorted[i].Kind() < sorted[j].Kind()
		}
		return sorted[i].Source < sorted[j].Source
	})

	for _, b := range sorted {
		if !b.ActiveAt(now) || b.Effect == nil {
			continue
		}
		stack := b.StackCount()
		ref := domain.BoostRef{Kind: b.Kind(), Source: b.Source}

		switch e := b.Effect.(type) {
		case domain.LuckEffect:
			m.Luck *= stacked(e.Multiplier, stack)
		case domain.CoinEffect:
			m.Coin *= stacked(e.Multiplier, stack)
		case domain.GemEffect:
			m.Gem *= stacked(e.Multiplier, stack)
		case domain.VariantLuckEffect:
			m.VariantLuck *= stacked(e.Multiplier, stack)
		case domain.HourlyDiceEffect:
			if e.Multiplier > 0 {
				m.Luck *= e.Multiplier
			}
		case domain.EveryNthEffect:
			if e.Every > 0 {
				m.EveryNth = append(m.EveryNth, NthGate{Every: e.Every, Multiplier: stacked(e.Multiplier, stack)})
			}
		case domain.EqualizeEffect:
			if e.Uses > 0 && m.Equalize == nil {
				m.Equalize = &LimitedUse{Ref: ref, Uses: e.Uses}
			}
		case domain.MinTierEffect:
			if e.Uses > 0 && e.Tier.Valid() && (m.MinTier == nil || e.Tier.RarerThan(m.MinTier.Tier)) {
				m.MinTier = &TierFloor{LimitedUse: LimitedUse{Ref: ref, Uses: e.Uses}, Tier: e.Tier}
			}
		case domain.GlitchTraitEffect:
			m.GlitchChance = combineChance(m.GlitchChance, e.Chance*float64(stack))
		case domain.VoidTraitEffect:
			m.VoidChance = combineChance(m.VoidChance, e.Chance*float64(stack))
		}
	}
	return m
}

// stacked raises a multiplier to the stack count. Non-positive multipliers are ignored.
func stacked(mult float64, stack int) float64 {
	if mult <= 0 {
		return 1
	}
	return math.Pow(mult, float64(stack))
}

// combineChance merges independent trait sources: P(any) = 1 - prod(1 - p).
func combineChance(current, p float64) float64 {
	p = clamp01(p)
	return 1 - (1-current)*(1-p)
}

func clamp01(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
