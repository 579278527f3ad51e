package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/FumoBot_Go/internal/boost"
	"github.com/osse101/FumoBot_Go/internal/domain"
)

// seqSource replays draws in order and then repeats the last one.
type seqSource struct {
	draws []float64
	i     int
}

func (s *seqSource) Float64() float64 {
	v := s.draws[s.i]
	if s.i < len(s.draws)-1 {
		s.i++
	}
	return v
}

func TestRoll_NoVariants(t *testing.T) {
	r := NewRoller(&seqSource{draws: []float64{0.5}})

	res := r.Roll(boost.Neutral())

	assert.Equal(t, domain.BaseVariantNone, res.Base)
	assert.Equal(t, domain.SpecialVariantNone, res.Special)
}

func TestRoll_AlGCheckedFirst(t *testing.T) {
	r := NewRoller(&seqSource{draws: []float64{0.00005, 0.5}})

	res := r.Roll(boost.Neutral())

	assert.Equal(t, domain.BaseVariantAlG, res.Base)
}

func TestRoll_Shiny(t *testing.T) {
	r := NewRoller(&seqSource{draws: []float64{0.5, 0.005}})

	res := r.Roll(boost.Neutral())

	assert.Equal(t, domain.BaseVariantShiny, res.Base)
}

func TestRoll_VariantLuckScalesChance(t *testing.T) {
	m := boost.Neutral()
	m.VariantLuck = 10

	res := NewRoller(&seqSource{draws: []float64{0.5, 0.05}}).Roll(m)

	assert.Equal(t, domain.BaseVariantShiny, res.Base)
}

func TestRoll_CertainShinyWhenCapped(t *testing.T) {
	m := boost.Neutral()
	m.VariantLuck = 1000

	res := NewRoller(&seqSource{draws: []float64{0.99}}).Roll(m)

	assert.Equal(t, domain.BaseVariantShiny, res.Base)
}

func TestRoll_SpecialPriority(t *testing.T) {
	m := boost.Neutral()
	m.GlitchChance = 1
	m.VoidChance = 1

	res := NewRoller(&seqSource{draws: []float64{0.99}}).Roll(m)
	assert.Equal(t, domain.SpecialVariantGlitched, res.Special)

	m.GlitchChance = 0
	res = NewRoller(&seqSource{draws: []float64{0.99}}).Roll(m)
	assert.Equal(t, domain.SpecialVariantVoid, res.Special)
}

func TestRoll_DisplayName(t *testing.T) {
	m := boost.Neutral()
	m.VariantLuck = 1e6
	m.VoidChance = 1

	res := NewRoller(&seqSource{draws: []float64{0.99}}).Roll(m)
	outcome := domain.RollOutcome{
		Rarity:         domain.RarityEpic,
		BaseVariant:    res.Base,
		SpecialVariant: res.Special,
		Entry:          domain.CatalogEntry{Name: "Reimu(EPIC)"},
	}

	assert.Equal(t, "Reimu(EPIC)[alG][VOID]", outcome.DisplayName())
}
