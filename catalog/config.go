package catalog

// ModelRef identifies one (tier, provider, model) choice in a fallback chain.
type ModelRef struct {
	Tier     Tier     `json:"tier" yaml:"tier" toml:"tier"`
	Provider Provider `json:"provider" yaml:"provider" toml:"provider"`
	Model    string   `json:"model" yaml:"model" toml:"model"`
}

// ModelConfig is the resolved configuration for one (tier, provider) pair.
type ModelConfig struct {
	// Provider is the backend serving this model.
	Provider Provider `json:"provider" yaml:"provider" toml:"provider"`

	// Model is the provider-specific model identifier.
	Model string `json:"model" yaml:"model" toml:"model"`

	// Version pins a specific model revision. Optional.
	Version string `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`

	// MaxOutputTokens limits response length.
	MaxOutputTokens int `json:"max_output_tokens" yaml:"max_output_tokens" toml:"max_output_tokens"`

	// Temperature is the default sampling temperature.
	Temperature float64 `json:"temperature" yaml:"temperature" toml:"temperature"`

	// ContextWindow is the model's maximum context size in tokens.
	ContextWindow int `json:"context_window" yaml:"context_window" toml:"context_window"`

	// InputCostPer1K and OutputCostPer1K are USD rates per 1,000 tokens.
	InputCostPer1K  float64 `json:"input_cost_per_1k" yaml:"input_cost_per_1k" toml:"input_cost_per_1k"`
	OutputCostPer1K float64 `json:"output_cost_per_1k" yaml:"output_cost_per_1k" toml:"output_cost_per_1k"`

	// Fallbacks is the ordered chain of alternatives tried after the primary
	// attempt fails. It never contains the entry itself.
	Fallbacks []ModelRef `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty" toml:"fallbacks,omitempty"`
}

// TierOverride holds per-tier field overrides in a client configuration.
// Zero-valued fields keep the base catalog value.
type TierOverride struct {
	Model           string  `json:"model,omitempty" yaml:"model,omitempty"`
	Version         string  `json:"version,omitempty" yaml:"version,omitempty"`
	MaxOutputTokens int     `json:"max_output_tokens,omitempty" yaml:"max_output_tokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	ContextWindow   int     `json:"context_window,omitempty" yaml:"context_window,omitempty"`
}

// ClientConfig holds per-client routing preferences and budget limits.
// Replacing a client's config is whole-object, last-write-wins.
type ClientConfig struct {
	// DefaultTier is used when the caller wants a fixed tier for this client.
	DefaultTier Tier `json:"default_tier,omitempty" yaml:"default_tier,omitempty"`

	// DefaultProvider is used when a request names no preferred provider.
	DefaultProvider Provider `json:"default_provider,omitempty" yaml:"default_provider,omitempty"`

	// AllowedProviders lists providers this client may be routed to. Each
	// allowed provider beyond the resolved one contributes a same-tier entry
	// to the resolved fallback chain.
	AllowedProviders []Provider `json:"allowed_providers,omitempty" yaml:"allowed_providers,omitempty"`

	// TierOverrides replaces individual model fields per tier.
	TierOverrides map[Tier]TierOverride `json:"tier_overrides,omitempty" yaml:"tier_overrides,omitempty"`

	// PinnedVersions pins the model identifier used for a provider,
	// overriding whatever the catalog resolves.
	PinnedVersions map[Provider]string `json:"pinned_versions,omitempty" yaml:"pinned_versions,omitempty"`

	// MaxDailyCost and MaxMonthlyCost are USD budget limits. Zero means
	// unlimited.
	MaxDailyCost   float64 `json:"max_daily_cost,omitempty" yaml:"max_daily_cost,omitempty"`
	MaxMonthlyCost float64 `json:"max_monthly_cost,omitempty" yaml:"max_monthly_cost,omitempty"`
}

// Allows reports whether the client may use the given provider.
// An empty allow list permits every provider.
func (c *ClientConfig) Allows(p Provider) bool {
	if c == nil || len(c.AllowedProviders) == 0 {
		return true
	}
	for _, a := range c.AllowedProviders {
		if a == p {
			return true
		}
	}
	return false
}
