package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routekit/routekit/catalog"
)

const validCatalogTOML = `
[[models]]
tier = "premium"
provider = "acme"
model = "acme-large"
version = "1"
max_output_tokens = 8192
temperature = 0.7
context_window = 100000
input_cost_per_1k = 0.02
output_cost_per_1k = 0.08

  [[models.fallbacks]]
  tier = "standard"
  provider = "acme"
  model = "acme-medium"

[[models]]
tier = "standard"
provider = "acme"
model = "acme-medium"
max_output_tokens = 4096
temperature = 0.7
context_window = 50000
input_cost_per_1k = 0.004
output_cost_per_1k = 0.012
`

func TestParseCatalog(t *testing.T) {
	c, err := catalog.Parse([]byte(validCatalogTOML))
	require.NoError(t, err)

	cfg, err := c.Lookup(catalog.TierPremium, "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme-large", cfg.Model)
	assert.Equal(t, 0.02, cfg.InputCostPer1K)
	require.Len(t, cfg.Fallbacks, 1)
	assert.Equal(t, catalog.TierStandard, cfg.Fallbacks[0].Tier)

	assert.Equal(t, []catalog.Provider{"acme"}, c.Providers())
}

func TestParseCatalogRejectsBadEntries(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{
			name: "invalid tier",
			toml: `[[models]]
tier = "gold"
provider = "acme"
model = "m"`,
		},
		{
			name: "missing provider",
			toml: `[[models]]
tier = "premium"
model = "m"`,
		},
		{
			name: "negative cost rate",
			toml: `[[models]]
tier = "premium"
provider = "acme"
model = "m"
input_cost_per_1k = -0.01`,
		},
		{
			name: "self-referencing fallback",
			toml: `[[models]]
tier = "premium"
provider = "acme"
model = "m"

  [[models.fallbacks]]
  tier = "premium"
  provider = "acme"
  model = "m"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tt.toml))
			require.Error(t, err)
			assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
			assert.True(t, catalog.IsConfigError(err))
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(validCatalogTOML), 0o644))

	c, err := catalog.LoadFile(path)
	require.NoError(t, err)

	_, err = c.Lookup(catalog.TierStandard, "acme")
	assert.NoError(t, err)
}

func TestReloadFileKeepsOldOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(validCatalogTOML), 0o644))

	c, err := catalog.LoadFile(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("not toml at all ["), 0o644))
	require.Error(t, c.ReloadFile(path))

	// Previous entries must survive a failed reload.
	_, err = c.Lookup(catalog.TierPremium, "acme")
	assert.NoError(t, err)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(validCatalogTOML), 0o644))

	c, err := catalog.LoadFile(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errs, err := c.Watch(ctx, path)
	require.NoError(t, err)

	updated := validCatalogTOML + `
[[models]]
tier = "economy"
provider = "acme"
model = "acme-small"
input_cost_per_1k = 0.0002
output_cost_per_1k = 0.0008
`
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	require.Eventually(t, func() bool {
		_, err := c.Lookup(catalog.TierEconomy, "acme")
		return err == nil
	}, 5*time.Second, 20*time.Millisecond, "catalog should pick up the new entry")

	cancel()
	select {
	case <-errs:
	case <-time.After(2 * time.Second):
		t.Fatal("error channel should close after cancellation")
	}
}

func TestParseClientConfig(t *testing.T) {
	data := []byte(`
default_tier: standard
default_provider: acme
allowed_providers: [acme, other]
tier_overrides:
  premium:
    model: acme-large-tuned
    max_output_tokens: 2048
pinned_versions:
  acme: acme-large-20250101
max_daily_cost: 5.0
`)

	cfg, err := catalog.ParseClientConfig(data)
	require.NoError(t, err)

	assert.Equal(t, catalog.TierStandard, cfg.DefaultTier)
	assert.Equal(t, catalog.Provider("acme"), cfg.DefaultProvider)
	assert.Equal(t, []catalog.Provider{"acme", "other"}, cfg.AllowedProviders)
	assert.Equal(t, "acme-large-tuned", cfg.TierOverrides[catalog.TierPremium].Model)
	assert.Equal(t, "acme-large-20250101", cfg.PinnedVersions["acme"])
	assert.Equal(t, 5.0, cfg.MaxDailyCost)
	assert.Zero(t, cfg.MaxMonthlyCost)
}

func TestParseClientConfigRejectsBadTier(t *testing.T) {
	_, err := catalog.ParseClientConfig([]byte("default_tier: platinum\n"))
	require.Error(t, err)

	_, err = catalog.ParseClientConfig([]byte("tier_overrides:\n  platinum:\n    model: x\n"))
	require.Error(t, err)
}

func TestParseClientConfigRejectsNegativeBudget(t *testing.T) {
	_, err := catalog.ParseClientConfig([]byte("max_daily_cost: -1\n"))
	require.Error(t, err)
}

func TestSchemasReflect(t *testing.T) {
	assert.NotNil(t, catalog.FileSchema())
	assert.NotNil(t, catalog.ClientConfigSchema())
}
