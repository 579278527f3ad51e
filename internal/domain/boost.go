package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// BoostKind is the persisted discriminator of an Effect.
type BoostKind string

const (
	BoostKindLuck        BoostKind = "luck"
	BoostKindCoin        BoostKind = "coin"
	BoostKindGem         BoostKind = "gem"
	BoostKindVariantLuck BoostKind = "variant_luck"
	BoostKindEveryNth    BoostKind = "every_nth"
	BoostKindHourlyDice  BoostKind = "hourly_dice"
	BoostKindEqualize    BoostKind = "equalize"
	BoostKindMinTier     BoostKind = "min_tier"
	BoostKindGlitchTrait BoostKind = "glitch_trait"
	BoostKindVoidTrait   BoostKind = "void_trait"
)

// Effect is the closed set of boost payloads. Only types in this package implement it.
type Effect interface {
	Kind() BoostKind
	sealed()
}

// LuckEffect multiplies rarity luck.
type LuckEffect struct {
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

// CoinEffect multiplies coin yield.
type CoinEffect struct {
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

// GemEffect multiplies gem yield.
type GemEffect struct {
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

// VariantLuckEffect multiplies the SHINY/alG base variant chances.
type VariantLuckEffect struct {
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

// EveryNthEffect applies a flat luck multiplier on every Nth lifetime roll.
type EveryNthEffect struct {
	Every      int     `json:"every" yaml:"every"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

// HourlyDiceEffect carries a luck multiplier redrawn once per wall-clock hour.
// Hour is the unix hour the multiplier was drawn for.
type HourlyDiceEffect struct {
	Hour       int64   `json:"hour" yaml:"-"`
	Multiplier float64 `json:"multiplier" yaml:"-"`
}

// EqualizeEffect makes the next Uses rolls pick uniformly among eligible tiers.
type EqualizeEffect struct {
	Uses int `json:"uses" yaml:"uses"`
}

// MinTierEffect raises the next Uses weighted rolls to at least Tier.
type MinTierEffect struct {
	Tier Rarity `json:"tier" yaml:"tier"`
	Uses int    `json:"uses" yaml:"uses"`
}

// GlitchTraitEffect grants the GLITCHED special variant with Chance per roll.
type GlitchTraitEffect struct {
	Chance float64 `json:"chance" yaml:"chance"`
}

// VoidTraitEffect grants the VOID special variant with Chance per roll.
type VoidTraitEffect struct {
	Chance float64 `json:"chance" yaml:"chance"`
}

func (LuckEffect) Kind() BoostKind        { return BoostKindLuck }
func (CoinEffect) Kind() BoostKind        { return BoostKindCoin }
func (GemEffect) Kind() BoostKind         { return BoostKindGem }
func (VariantLuckEffect) Kind() BoostKind { return BoostKindVariantLuck }
func (EveryNthEffect) Kind() BoostKind    { return BoostKindEveryNth }
func (HourlyDiceEffect) Kind() BoostKind  { return BoostKindHourlyDice }
func (EqualizeEffect) Kind() BoostKind    { return BoostKindEqualize }
func (MinTierEffect) Kind() BoostKind     { return BoostKindMinTier }
func (GlitchTraitEffect) Kind() BoostKind { return BoostKindGlitchTrait }
func (VoidTraitEffect) Kind() BoostKind   { return BoostKindVoidTrait }

func (LuckEffect) sealed()        {}
func (CoinEffect) sealed()        {}
func (GemEffect) sealed()         {}
func (VariantLuckEffect) sealed() {}
func (EveryNthEffect) sealed()    {}
func (HourlyDiceEffect) sealed()  {}
func (EqualizeEffect) sealed()    {}
func (MinTierEffect) sealed()     {}
func (GlitchTraitEffect) sealed() {}
func (VoidTraitEffect) sealed()   {}

// Boost is an active effect row keyed by (UserID, Kind, Source).
type Boost struct {
	UserID    string     `json:"user_id"`
	Source    string     `json:"source"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Stack     int        `json:"stack"`
	Effect    Effect     `json:"-"`
}

// Kind returns the kind of the carried effect.
func (b Boost) Kind() BoostKind {
	if b.Effect == nil {
		return ""
	}
	return b.Effect.Kind()
}

// ActiveAt reports whether the boost has not expired at now. Boosts without expiry are permanent.
func (b Boost) ActiveAt(now time.Time) bool {
	return b.ExpiresAt == nil || now.Before(*b.ExpiresAt)
}

// StackCount returns the effective stack, at least 1.
func (b Boost) StackCount() int {
	if b.Stack < 1 {
		return 1
	}
	return b.Stack
}

// BoostRef identifies a limited-use boost row.
type BoostRef struct {
	Kind   BoostKind `json:"kind"`
	Source string    `json:"source"`
}

// BoostUse records how many uses of a limited-use boost a transaction consumed.
type BoostUse struct {
	BoostRef
	Uses int
}

// EncodeEffect splits an effect into the persisted (kind, payload) pair.
func EncodeEffect(e Effect) (BoostKind, []byte, error) {
	if e == nil {
		return "", nil, fmt.Errorf("%w: nil effect", ErrInvalidBoost)
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal %s effect: %w", e.Kind(), err)
	}
	return e.Kind(), payload, nil
}

// DecodeEffect rebuilds an effect from its persisted kind and payload.
func DecodeEffect(kind BoostKind, payload []byte) (Effect, error) {
	var (
		e   Effect
		err error
	)
	switch kind {
	case BoostKindLuck:
		var v LuckEffect
		err = unmarshalPayload(payload, &v)
		e = v
	case BoostKindCoin:
		var v CoinEffect
		err = unmarshalPayload(payload, &v)
		e = v
	case BoostKindGem:
		var v GemEffect
		err = unmarshalPayload(payload, &v)
		e = v
	case BoostKindVariantLuck:
		var v VariantLuckEffect
		err = unmarshalPayload(payload, &v)
		e = v
	case BoostKindEveryNth:
		var v EveryNthEffect
		err = unmarshalPayload(payload, &v)
		e = v
	case BoostKindHourlyDice:
		var v HourlyDiceEffect
		err = unmarshalPayload(payload, &v)
		e = v
	case BoostKindEqualize:
		var v EqualizeEffect
		err = unmarshalPayload(payload, &v)
		e = v
	case BoostKindMinTier:
		var v MinTierEffect
		if err = unmarshalPayload(payload, &v); err == nil {
			v.Tier, err = ParseRarity(string(v.Tier))
		}
		e = v
	case BoostKindGlitchTrait:
		var v GlitchTraitEffect
		err = unmarshalPayload(payload, &v)
		e = v
	case BoostKindVoidTrait:
		var v VoidTraitEffect
		err = unmarshalPayload(payload, &v)
		e = v
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidBoost, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", kind, err)
	}
	return e, nil
}

func unmarshalPayload(payload []byte, v interface{}) error {
	if len(payload) == 0 {
		return nil
	}
	return json.Unmarshal(payload, v)
}

// WithUses returns a copy of a limited-use effect with its remaining uses replaced.
// Effects without uses are returned unchanged.
func WithUses(e Effect, uses int) Effect {
	switch v := e.(type) {
	case EqualizeEffect:
		v.Uses = uses
		return v
	case MinTierEffect:
		v.Uses = uses
		return v
	default:
		return e
	}
}

// UsesOf returns the remaining uses of a limited-use effect, or -1 for unlimited effects.
func UsesOf(e Effect) int {
	switch v := e.(type) {
	case EqualizeEffect:
		return v.Uses
	case MinTierEffect:
		return v.Uses
	default:
		return -1
	}
}
