package domain

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rarity is the canonical, upper-case tier tag of a fumo.
type Rarity string

// Rarity tiers, rarest first.
const (
	RarityTranscendent Rarity = "TRANSCENDENT"
	RarityEternal      Rarity = "ETERNAL"
	RarityInfinite     Rarity = "INFINITE"
	RarityCelestial    Rarity = "CELESTIAL"
	RarityAstral       Rarity = "ASTRAL"
	RaritySecret       Rarity = "???"
	RarityExclusive    Rarity = "EXCLUSIVE"
	RarityMythical     Rarity = "MYTHICAL"
	RarityLegendary    Rarity = "LEGENDARY"
	RarityOtherworldly Rarity = "OTHERWORLDLY"
	RarityEpic         Rarity = "EPIC"
	RarityRare         Rarity = "RARE"
	RarityUncommon     Rarity = "UNCOMMON"
	RarityCommon       Rarity = "COMMON"
)

// Rarities lists every tier ordered from most to least rare.
var Rarities = []Rarity{
	RarityTranscendent,
	RarityEternal,
	RarityInfinite,
	RarityCelestial,
	RarityAstral,
	RaritySecret,
	RarityExclusive,
	RarityMythical,
	RarityLegendary,
	RarityOtherworldly,
	RarityEpic,
	RarityRare,
	RarityUncommon,
	RarityCommon,
}

// UltraRarities are the tiers gated behind UltraUnlocked and tracked by pity, rarest first.
var UltraRarities = []Rarity{
	RarityTranscendent,
	RarityEternal,
	RarityInfinite,
	RarityCelestial,
	RarityAstral,
}

// rarityAliases covers legacy spellings seen in old catalog files.
var rarityAliases = map[string]Rarity{
	"BASIC": RarityCommon,
}

var upperCaser = cases.Upper(language.Und)

// ParseRarity normalizes a tag of any casing into its canonical Rarity.
func ParseRarity(s string) (Rarity, error) {
	norm := upperCaser.String(strings.TrimSpace(s))
	for _, r := range Rarities {
		if string(r) == norm {
			return r, nil
		}
	}
	if r, ok := rarityAliases[norm]; ok {
		return r, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRarity, s)
}

// Rank returns the tier's position where 0 is the rarest. Unknown tiers rank after COMMON.
func (r Rarity) Rank() int {
	for i, t := range Rarities {
		if t == r {
			return i
		}
	}
	return len(Rarities)
}

// IsUltra reports whether the tier is one of the pity-tracked ultra-rare tiers.
func (r Rarity) IsUltra() bool {
	for _, t := range UltraRarities {
		if t == r {
			return true
		}
	}
	return false
}

// RarerThan reports whether r is strictly rarer than other.
func (r Rarity) RarerThan(other Rarity) bool {
	return r.Rank() < other.Rank()
}

// Valid reports whether r is a known canonical tier.
func (r Rarity) Valid() bool {
	return r.Rank() < len(Rarities)
}

func (r Rarity) String() string {
	return string(r)
}
