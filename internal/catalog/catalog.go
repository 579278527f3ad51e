// Package catalog serves the static fumo pool indexed by rarity.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/osse101/FumoBot_Go/internal/domain"
	"github.com/osse101/FumoBot_Go/internal/validation"
)

//go:embed catalog.schema.json
var schema []byte

// Provider returns the catalog entries of a tier.
type Provider interface {
	ForRarity(r domain.Rarity) []domain.CatalogEntry
}

type file struct {
	Version string                `json:"version"`
	Fumos   []domain.CatalogEntry `json:"fumos"`
}

// Catalog is an immutable rarity index.
type Catalog struct {
	version string
	byTier  map[domain.Rarity][]domain.CatalogEntry
}

// New indexes entries by canonical rarity. Invalid rarities are rejected.
func New(entries []domain.CatalogEntry) (*Catalog, error) {
	c := &Catalog{byTier: make(map[domain.Rarity][]domain.CatalogEntry)}
	for _, e := range entries {
		r, err := domain.ParseRarity(string(e.Rarity))
		if err != nil {
			return nil, fmt.Errorf("fumo %q: %w", e.Name, err)
		}
		e.Rarity = r
		c.byTier[r] = append(c.byTier[r], e)
	}
	return c, nil
}

// Load reads, validates and indexes a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToReadCatalog, err)
	}
	return Parse(data)
}

// Parse validates and indexes catalog JSON.
func Parse(data []byte) (*Catalog, error) {
	v := validation.NewSchemaValidator()
	if err := v.Register(SchemaName, schema); err != nil {
		return nil, err
	}
	if err := v.ValidateBytes(data, SchemaName); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToValidateCatalog, err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToParseCatalog, err)
	}

	c, err := New(f.Fumos)
	if err != nil {
		return nil, err
	}
	c.version = f.Version
	slog.Default().Info(LogMsgCatalogLoaded, "version", f.Version, "fumos", len(f.Fumos))
	return c, nil
}

// ForRarity returns the entries of tier r. The slice must not be modified.
func (c *Catalog) ForRarity(r domain.Rarity) []domain.CatalogEntry {
	return c.byTier[r]
}

// Version returns the catalog file version.
func (c *Catalog) Version() string {
	return c.version
}

// Counts returns the number of entries per tier.
func (c *Catalog) Counts() map[domain.Rarity]int {
	out := make(map[domain.Rarity]int, len(c.byTier))
	for r, entries := range c.byTier {
		out[r] = len(entries)
	}
	return out
}
