package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/FumoBot_Go/internal/domain"
)

func TestParse(t *testing.T) {
	c, err := Parse([]byte(`{
		"version": "1",
		"fumos": [
			{"name": "Reimu(Common)", "rarity": "common"},
			{"name": "Marisa(Common)", "rarity": "Common"},
			{"name": "Flandre(???)", "rarity": "???", "image": "flan.png"},
			{"name": "Old(Basic)", "rarity": "basic"}
		]
	}`))

	require.NoError(t, err)
	assert.Equal(t, "1", c.Version())
	assert.Len(t, c.ForRarity(domain.RarityCommon), 3)
	require.Len(t, c.ForRarity(domain.RaritySecret), 1)
	assert.Equal(t, "flan.png", c.ForRarity(domain.RaritySecret)[0].Image)
	assert.Empty(t, c.ForRarity(domain.RarityEpic))
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"fumos": `},
		{"missing version", `{"fumos": [{"name": "a", "rarity": "common"}]}`},
		{"empty pool", `{"version": "1", "fumos": []}`},
		{"missing rarity", `{"version": "1", "fumos": [{"name": "a"}]}`},
		{"unknown rarity", `{"version": "1", "fumos": [{"name": "a", "rarity": "sparkly"}]}`},
		{"extra field", `{"version": "1", "fumos": [{"name": "a", "rarity": "common", "price": 3}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ShippedCatalog(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "configs", "catalog.json"))
	require.NoError(t, err)

	for _, r := range domain.Rarities {
		assert.NotEmpty(t, c.ForRarity(r), "tier %s has no fumos", r)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
