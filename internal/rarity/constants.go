package rarity

import "github.com/osse101/FumoBot_Go/internal/domain"

// percentScale is the range of the weighted draw; chances are expressed in percent.
const percentScale = 100.0

// BaseChances is the percent chance of every tier except COMMON, which takes the remainder.
var BaseChances = map[domain.Rarity]float64{
	domain.RarityTranscendent: 0.0000667,
	domain.RarityEternal:      0.0002,
	domain.RarityInfinite:     0.0005,
	domain.RarityCelestial:    0.001111,
	domain.RarityAstral:       0.003333,
	domain.RaritySecret:       0.006666,
	domain.RarityExclusive:    0.02,
	domain.RarityMythical:     0.1,
	domain.RarityLegendary:    0.4,
	domain.RarityOtherworldly: 1,
	domain.RarityEpic:         6,
	domain.RarityRare:         10,
	domain.RarityUncommon:     25,
}

// Path names for logs and metrics.
const (
	PathPity     = "pity"
	PathEqualize = "equalize"
	PathWeighted = "weighted"
	PathMinTier  = "min_tier"
)
