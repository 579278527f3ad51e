package domain

import "strings"

// BaseVariant is the cosmetic trait rolled from base odds.
type BaseVariant string

const (
	BaseVariantNone  BaseVariant = ""
	BaseVariantShiny BaseVariant = "SHINY"
	BaseVariantAlG   BaseVariant = "alG"
)

// SpecialVariant is the boost-granted trait.
type SpecialVariant string

const (
	SpecialVariantNone     SpecialVariant = ""
	SpecialVariantGlitched SpecialVariant = "GLITCHED"
	SpecialVariantVoid     SpecialVariant = "VOID"
)

// Rank orders base variants, higher is rarer.
func (v BaseVariant) Rank() int {
	switch v {
	case BaseVariantAlG:
		return 2
	case BaseVariantShiny:
		return 1
	default:
		return 0
	}
}

// Rank orders special variants, higher is rarer.
func (v SpecialVariant) Rank() int {
	switch v {
	case SpecialVariantGlitched:
		return 2
	case SpecialVariantVoid:
		return 1
	default:
		return 0
	}
}

// CatalogEntry is a collectible definition from the static catalog.
type CatalogEntry struct {
	Name   string `json:"name"`
	Image  string `json:"image"`
	Rarity Rarity `json:"rarity"`
}

// RollOutcome is the ephemeral result of one resolved unit.
type RollOutcome struct {
	Rarity         Rarity         `json:"rarity"`
	BaseVariant    BaseVariant    `json:"base_variant,omitempty"`
	SpecialVariant SpecialVariant `json:"special_variant,omitempty"`
	Entry          CatalogEntry   `json:"entry"`
	PityTriggered  bool           `json:"pity_triggered,omitempty"`
}

// DisplayName is the inventory key: base name then base and special variant tags, in that order.
func (o RollOutcome) DisplayName() string {
	var b strings.Builder
	b.WriteString(o.Entry.Name)
	if o.BaseVariant != BaseVariantNone {
		b.WriteString("[")
		b.WriteString(string(o.BaseVariant))
		b.WriteString("]")
	}
	if o.SpecialVariant != SpecialVariantNone {
		b.WriteString("[")
		b.WriteString(string(o.SpecialVariant))
		b.WriteString("]")
	}
	return b.String()
}

// BetterThan ranks outcomes by rarity, then base variant, then special variant.
func (o RollOutcome) BetterThan(other RollOutcome) bool {
	if o.Rarity != other.Rarity {
		return o.Rarity.RarerThan(other.Rarity)
	}
	if o.BaseVariant.Rank() != other.BaseVariant.Rank() {
		return o.BaseVariant.Rank() > other.BaseVariant.Rank()
	}
	return o.SpecialVariant.Rank() > other.SpecialVariant.Rank()
}
