// Package pity tracks the per-user ultra-rare pity counters.
package pity

import "github.com/osse101/FumoBot_Go/internal/domain"

// Thresholds is the number of non-producing rolls after which a tier is forced.
var Thresholds = map[domain.Rarity]int64{
	domain.RarityTranscendent: 1_500_000,
	domain.RarityEternal:      500_000,
	domain.RarityInfinite:     200_000,
	domain.RarityCelestial:    90_000,
	domain.RarityAstral:       30_000,
}

// New returns zeroed counters for every ultra-rare tier.
func New() domain.PityCounters {
	c := make(domain.PityCounters, len(domain.UltraRarities))
	for _, r := range domain.UltraRarities {
		c[r] = 0
	}
	return c
}

// Forced returns the rarest tier whose counter reached its threshold.
func Forced(c domain.PityCounters) (domain.Rarity, bool) {
	for _, r := range domain.UltraRarities {
		if c[r] >= Thresholds[r] {
			return r, true
		}
	}
	return "", false
}

// Advance records one roll that produced tier: its counter resets and every other
// ultra-rare counter increments, capped at domain.PityCounterCap.
func Advance(c domain.PityCounters, produced domain.Rarity) {
	for _, r := range domain.UltraRarities {
		if r == produced {
			c[r] = 0
			continue
		}
		if c[r] < domain.PityCounterCap {
			c[r]++
		}
	}
}

// Remaining returns how many more rolls until tier is forced, never negative.
func Remaining(c domain.PityCounters, tier domain.Rarity) int64 {
	threshold, ok := Thresholds[tier]
	if !ok {
		return 0
	}
	left := threshold - c[tier]
	if left < 0 {
		return 0
	}
	return left
}
