// Package variant rolls the cosmetic variant tags of a roll unit.
package variant

import (
	"github.com/osse101/FumoBot_Go/internal/boost"
	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/rarity"
)

// Base variant chances before variant luck.
const (
	AlGChance   = 0.0001
	ShinyChance = 0.01
)

// Result carries the rolled tags.
type Result struct {
	Base    domain.BaseVariant
	Special domain.SpecialVariant
}

// Roller draws independent Bernoulli trials per unit.
type Roller struct {
	rnd rarity.RandomSource
}

// NewRoller creates a roller. A nil source falls back to rarity.DefaultSource.
func NewRoller(rnd rarity.RandomSource) *Roller {
	if rnd == nil {
		rnd = rarity.DefaultSource
	}
	return &Roller{rnd: rnd}
}

// Roll draws base and special variants. alG is checked before SHINY and
// GLITCHED before VOID; each check consumes one draw.
func (r *Roller) Roll(m boost.Modifiers) Result {
	var res Result

	variantLuck := m.VariantLuck
	if variantLuck <= 0 {
		variantLuck = 1
	}
	switch {
	case r.hit(AlGChance * variantLuck):
		res.Base = domain.BaseVariantAlG
	case r.hit(ShinyChance * variantLuck):
		res.Base = domain.BaseVariantShiny
	}

	switch {
	case r.hit(m.GlitchChance):
		res.Special = domain.SpecialVariantGlitched
	case r.hit(m.VoidChance):
		res.Special = domain.SpecialVariantVoid
	}
	return res
}

func (r *Roller) hit(chance float64) bool {
	if chance <= 0 {
		return false
	}
	if chance >= 1 {
		return true
	}
	return r.rnd.Float64() < chance
}
