package boost

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/osse101/FumoBot_Go/internal/domain"
)

// Definition describes the boost a consumable source grants.
type Definition struct {
	Source   string
	Duration time.Duration // zero means permanent
	MaxStack int
	Effect   domain.Effect
}

// definitionFile is the YAML layout of configs/boosts.yaml.
type definitionFile struct {
	Boosts []definitionDef `yaml:"boosts"`
}

type definitionDef struct {
	Source     string           `yaml:"source"`
	Kind       domain.BoostKind `yaml:"kind"`
	Duration   string           `yaml:"duration"`
	MaxStack   int              `yaml:"max_stack"`
	Multiplier float64          `yaml:"multiplier"`
	Every      int              `yaml:"every"`
	Uses       int              `yaml:"uses"`
	Tier       string           `yaml:"tier"`
	Chance     float64          `yaml:"chance"`
}

// Definitions indexes boost definitions by source.
type Definitions map[string]Definition

// LoadDefinitions reads and validates a YAML boost definition file.
func LoadDefinitions(path string) (Definitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToReadDefinitions, err)
	}
	return ParseDefinitions(data)
}

// ParseDefinitions decodes YAML boost definitions.
func ParseDefinitions(data []byte) (Definitions, error) {
	var file definitionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToParseDefinitions, err)
	}

	defs := make(Definitions, len(file.Boosts))
	for i, raw := range file.Boosts {
		def, err := raw.build()
		if err != nil {
			return nil, fmt.Errorf("boost %d (%q): %w", i, raw.Source, err)
		}
		if _, dup := defs[def.Source]; dup {
			return nil, fmt.Errorf("%w: duplicate source %q", domain.ErrInvalidBoost, def.Source)
		}
		defs[def.Source] = def
	}
	return defs, nil
}

func (d definitionDef) build() (Definition, error) {
	if d.Source == "" {
		return Definition{}, fmt.Errorf("%w: missing source", domain.ErrInvalidBoost)
	}

	def := Definition{Source: d.Source, MaxStack: d.MaxStack}
	if def.MaxStack < 1 {
		def.MaxStack = DefaultMaxStack
	}
	if d.Duration != "" {
		dur, err := time.ParseDuration(d.Duration)
		if err != nil {
			return Definition{}, fmt.Errorf("%w: duration: %v", domain.ErrInvalidBoost, err)
		}
		def.Duration = dur
	}

	switch d.Kind {
	case domain.BoostKindLuck:
		def.Effect = domain.LuckEffect{Multiplier: d.Multiplier}
	case domain.BoostKindCoin:
		def.Effect = domain.CoinEffect{Multiplier: d.Multiplier}
	case domain.BoostKindGem:
		def.Effect = domain.GemEffect{Multiplier: d.Multiplier}
	case domain.BoostKindVariantLuck:
		def.Effect = domain.VariantLuckEffect{Multiplier: d.Multiplier}
	case domain.BoostKindEveryNth:
		if d.Every < 1 {
			return Definition{}, fmt.Errorf("%w: every must be positive", domain.ErrInvalidBoost)
		}
		def.Effect = domain.EveryNthEffect{Every: d.Every, Multiplier: d.Multiplier}
	case domain.BoostKindHourlyDice:
		def.Effect = domain.HourlyDiceEffect{}
	case domain.BoostKindEqualize:
		def.Effect = domain.EqualizeEffect{Uses: d.Uses}
	case domain.BoostKindMinTier:
		tier, err := domain.ParseRarity(d.Tier)
		if err != nil {
			return Definition{}, err
		}
		def.Effect = domain.MinTierEffect{Tier: tier, Uses: d.Uses}
	case domain.BoostKindGlitchTrait:
		def.Effect = domain.GlitchTraitEffect{Chance: d.Chance}
	case domain.BoostKindVoidTrait:
		def.Effect = domain.VoidTraitEffect{Chance: d.Chance}
	default:
		return Definition{}, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidBoost, d.Kind)
	}

	if uses := domain.UsesOf(def.Effect); uses == 0 {
		return Definition{}, fmt.Errorf("%w: %s needs uses", domain.ErrInvalidBoost, d.Kind)
	}
	return def, nil
}
