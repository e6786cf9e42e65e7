package router

import (
	"fmt"
	"os"
	"strconv"

	"github.com/routekit/routekit/assess"
	"github.com/routekit/routekit/catalog"
)

// Config holds process-level router configuration, typically loaded from the
// environment at startup and handed to NewFromConfig.
type Config struct {
	// DefaultProvider is used when neither a request nor a client
	// configuration names a provider. Default: "openai".
	DefaultProvider catalog.Provider `json:"default_provider" yaml:"default_provider"`

	// CatalogPath, when set, loads the model catalog from a TOML file
	// instead of the built-in defaults.
	CatalogPath string `json:"catalog_path" yaml:"catalog_path"`

	// PremiumThreshold and StandardThreshold tune the complexity score
	// cutoffs for tier selection. Zero keeps the defaults (0.7 / 0.4).
	PremiumThreshold  float64 `json:"premium_threshold" yaml:"premium_threshold"`
	StandardThreshold float64 `json:"standard_threshold" yaml:"standard_threshold"`

	// RecordUsage makes RouteAndExecute write ledger entries for
	// successful executions.
	RecordUsage bool `json:"record_usage" yaml:"record_usage"`
}

// DefaultRouterConfig returns a Config with the built-in defaults.
func DefaultRouterConfig() Config {
	return Config{DefaultProvider: DefaultProvider}
}

// LoadFromEnv populates config fields from environment variables.
// Variables use the ROUTEKIT_ prefix and take precedence over existing
// values.
//
// Supported variables:
//   - ROUTEKIT_DEFAULT_PROVIDER: Default provider name
//   - ROUTEKIT_CATALOG_PATH: Path to a TOML catalog file
//   - ROUTEKIT_PREMIUM_THRESHOLD: Premium complexity cutoff
//   - ROUTEKIT_STANDARD_THRESHOLD: Standard complexity cutoff
//   - ROUTEKIT_RECORD_USAGE: "true" to record usage on execution
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("ROUTEKIT_DEFAULT_PROVIDER"); v != "" {
		c.DefaultProvider = catalog.Provider(v)
	}
	if v := os.Getenv("ROUTEKIT_CATALOG_PATH"); v != "" {
		c.CatalogPath = v
	}
	if v := os.Getenv("ROUTEKIT_PREMIUM_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.PremiumThreshold = f
		}
	}
	if v := os.Getenv("ROUTEKIT_STANDARD_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.StandardThreshold = f
		}
	}
	if v := os.Getenv("ROUTEKIT_RECORD_USAGE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.RecordUsage = b
		}
	}
}

// FromEnv creates a Config from environment variables with defaults.
func FromEnv() Config {
	cfg := DefaultRouterConfig()
	cfg.LoadFromEnv()
	return cfg
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.PremiumThreshold < 0 || c.PremiumThreshold > 1 {
		return fmt.Errorf("premium_threshold must be in [0,1], got %f", c.PremiumThreshold)
	}
	if c.StandardThreshold < 0 || c.StandardThreshold > 1 {
		return fmt.Errorf("standard_threshold must be in [0,1], got %f", c.StandardThreshold)
	}
	if c.PremiumThreshold != 0 && c.StandardThreshold != 0 && c.StandardThreshold > c.PremiumThreshold {
		return fmt.Errorf("standard_threshold %f exceeds premium_threshold %f",
			c.StandardThreshold, c.PremiumThreshold)
	}
	return nil
}

// NewFromConfig builds a router from a process-level configuration,
// loading the catalog file when one is named. Additional options are
// applied after the config and may override it.
func NewFromConfig(cfg Config, opts ...RouterOption) (*Router, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		loaded, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		cat = loaded
	}

	base := []RouterOption{WithUsageRecording(cfg.RecordUsage)}
	if cfg.DefaultProvider != "" {
		base = append(base, WithDefaultProvider(cfg.DefaultProvider))
	}
	if cfg.PremiumThreshold != 0 || cfg.StandardThreshold != 0 {
		premium := cfg.PremiumThreshold
		if premium == 0 {
			premium = assess.DefaultPremiumThreshold
		}
		standard := cfg.StandardThreshold
		if standard == 0 {
			standard = assess.DefaultStandardThreshold
		}
		base = append(base, WithAssessor(assess.New(assess.WithThresholds(premium, standard))))
	}

	return New(cat, append(base, opts...)...), nil
}
