// Package rarity picks the tier of a single roll unit.
package rarity

import (
	"github.com/osse101/FumoBot_Go/internal/boost"
	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/pity"
	"github.com/osse101/FumoBot_Go/internal/utils"
)

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// FuncSource adapts a plain function to RandomSource.
type FuncSource func() float64

func (f FuncSource) Float64() float64 { return f() }

// DefaultSource draws from utils.RandomFloat.
var DefaultSource RandomSource = FuncSource(utils.RandomFloat)

// Input is everything a single resolution depends on.
type Input struct {
	Pity          domain.PityCounters
	UltraUnlocked bool
	Luck          float64
	Equalize      *boost.LimitedUse
	MinTier       *boost.TierFloor
}

// Result is the resolved tier and the limited-use boost it consumed, if any.
type Result struct {
	Rarity        domain.Rarity
	Path          string
	PityTriggered bool
	Consumed      *domain.BoostRef
}

// Resolver resolves rarity tiers. It holds no state besides its random source.
type Resolver struct {
	rnd RandomSource
}

// NewResolver creates a resolver. A nil source falls back to DefaultSource.
func NewResolver(rnd RandomSource) *Resolver {
	if rnd == nil {
		rnd = DefaultSource
	}
	return &Resolver{rnd: rnd}
}

// Resolve applies, in order: pity override, equalize, weighted roll with min-tier floor.
func (r *Resolver) Resolve(in Input) Result {
	if in.UltraUnlocked {
		if tier, ok := pity.Forced(in.Pity); ok {
			return Result{Rarity: tier, Path: PathPity, PityTriggered: true}
		}
	}

	eligible := Eligible(in.UltraUnlocked)

	if in.Equalize != nil && in.Equalize.Uses > 0 {
		idx := int(r.rnd.Float64() * float64(len(eligible)))
		if idx >= len(eligible) {
			idx = len(eligible) - 1
		}
		ref := in.Equalize.Ref
		return Result{Rarity: eligible[idx], Path: PathEqualize, Consumed: &ref}
	}

	res := Result{Rarity: Weighted(r.rnd.Float64(), in.Luck, in.UltraUnlocked), Path: PathWeighted}

	if floor := in.MinTier; floor != nil && floor.Uses > 0 && isEligible(floor.Tier, in.UltraUnlocked) {
		if floor.Tier.RarerThan(res.Rarity) {
			res.Rarity = floor.Tier
			res.Path = PathMinTier
		}
		ref := floor.Ref
		res.Consumed = &ref
	}
	return res
}

// Weighted maps a uniform draw u in [0,1) to a tier. The draw is scaled to percent
// and divided by luck, then compared against cumulative chances rarest first.
func Weighted(u, luck float64, ultraUnlocked bool) domain.Rarity {
	if luck <= 0 {
		luck = 1
	}
	point := u * percentScale / luck

	cumulative := 0.0
	for _, tier := range domain.Rarities {
		chance, ok := BaseChances[tier]
		if !ok || (tier.IsUltra() && !ultraUnlocked) {
			continue
		}
		cumulative += chance
		if point < cumulative {
			return tier
		}
	}
	return domain.RarityCommon
}

// Eligible lists the tiers a roll may produce, rarest first.
func Eligible(ultraUnlocked bool) []domain.Rarity {
	if ultraUnlocked {
		return domain.Rarities
	}
	out := make([]domain.Rarity, 0, len(domain.Rarities)-len(domain.UltraRarities))
	for _, tier := range domain.Rarities {
		if !tier.IsUltra() {
			out = append(out, tier)
		}
	}
	return out
}

func isEligible(tier domain.Rarity, ultraUnlocked bool) bool {
	return tier.Valid() && (ultraUnlocked || !tier.IsUltra())
}
