package catalog

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// File is the on-disk TOML representation of a catalog.
type File struct {
	Models []FileEntry `toml:"models" json:"models"`
}

// FileEntry is one catalog entry in a catalog file.
type FileEntry struct {
	Tier Tier `toml:"tier" json:"tier"`
	ModelConfig
}

// LoadFile reads a catalog from a TOML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse builds a catalog from TOML data, validating every entry.
func Parse(data []byte) (*Catalog, error) {
	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, newError("load", TierUnknown, "", fmt.Errorf("%w: %v", ErrInvalidCatalog, err))
	}

	c := New()
	for i, entry := range file.Models {
		if err := validateEntry(entry); err != nil {
			return nil, newError("load", entry.Tier, entry.Provider,
				fmt.Errorf("%w: models[%d]: %v", ErrInvalidCatalog, i, err))
		}
		c.Set(entry.Tier, entry.ModelConfig)
	}
	return c, nil
}

// ReloadFile replaces the catalog's entries with the contents of the file.
// The swap is atomic: concurrent readers see either the old or the new
// catalog. On error the existing entries are left untouched.
func (c *Catalog) ReloadFile(path string) error {
	loaded, err := LoadFile(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries = loaded.entries
	c.mu.Unlock()
	return nil
}

func validateEntry(entry FileEntry) error {
	if !entry.Tier.Valid() {
		return fmt.Errorf("missing or invalid tier")
	}
	if entry.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if entry.Model == "" {
		return fmt.Errorf("model is required")
	}
	if entry.InputCostPer1K < 0 || entry.OutputCostPer1K < 0 {
		return fmt.Errorf("cost rates must be >= 0")
	}
	for j, ref := range entry.Fallbacks {
		if !ref.Tier.Valid() || ref.Provider == "" || ref.Model == "" {
			return fmt.Errorf("fallbacks[%d] is incomplete", j)
		}
		if ref.Tier == entry.Tier && ref.Provider == entry.Provider && ref.Model == entry.Model {
			return fmt.Errorf("fallbacks[%d] references the entry itself", j)
		}
	}
	return nil
}

// clientConfigFile is the on-disk YAML representation of a ClientConfig.
// Tier names are plain strings in the file and parsed on load.
type clientConfigFile struct {
	DefaultTier      string                  `yaml:"default_tier" json:"default_tier,omitempty"`
	DefaultProvider  string                  `yaml:"default_provider" json:"default_provider,omitempty"`
	AllowedProviders []string                `yaml:"allowed_providers" json:"allowed_providers,omitempty"`
	TierOverrides    map[string]TierOverride `yaml:"tier_overrides" json:"tier_overrides,omitempty"`
	PinnedVersions   map[string]string       `yaml:"pinned_versions" json:"pinned_versions,omitempty"`
	MaxDailyCost     float64                 `yaml:"max_daily_cost" json:"max_daily_cost,omitempty"`
	MaxMonthlyCost   float64                 `yaml:"max_monthly_cost" json:"max_monthly_cost,omitempty"`
}

// LoadClientConfig reads a client configuration from a YAML file.
func LoadClientConfig(path string) (*ClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read client config: %w", err)
	}
	return ParseClientConfig(data)
}

// ParseClientConfig builds a ClientConfig from YAML data.
func ParseClientConfig(data []byte) (*ClientConfig, error) {
	var file clientConfigFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse client config: %w", err)
	}

	cfg := &ClientConfig{
		DefaultProvider: Provider(file.DefaultProvider),
		MaxDailyCost:    file.MaxDailyCost,
		MaxMonthlyCost:  file.MaxMonthlyCost,
	}
	if cfg.MaxDailyCost < 0 || cfg.MaxMonthlyCost < 0 {
		return nil, fmt.Errorf("parse client config: budget limits must be >= 0")
	}

	if file.DefaultTier != "" {
		tier, err := ParseTier(file.DefaultTier)
		if err != nil {
			return nil, fmt.Errorf("parse client config: default_tier: %w", err)
		}
		cfg.DefaultTier = tier
	}

	for _, p := range file.AllowedProviders {
		cfg.AllowedProviders = append(cfg.AllowedProviders, Provider(p))
	}

	if len(file.TierOverrides) > 0 {
		cfg.TierOverrides = make(map[Tier]TierOverride, len(file.TierOverrides))
		for name, ov := range file.TierOverrides {
			tier, err := ParseTier(name)
			if err != nil {
				return nil, fmt.Errorf("parse client config: tier_overrides: %w", err)
			}
			cfg.TierOverrides[tier] = ov
		}
	}

	if len(file.PinnedVersions) > 0 {
		cfg.PinnedVersions = make(map[Provider]string, len(file.PinnedVersions))
		for p, pin := range file.PinnedVersions {
			cfg.PinnedVersions[Provider(p)] = pin
		}
	}

	return cfg, nil
}
