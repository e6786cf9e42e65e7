package catalog

import (
	"sort"
	"strings"
	"sync"
)

// key identifies one catalog entry.
type key struct {
	tier     Tier
	provider Provider
}

// Catalog is the tier/provider registry. All read operations are safe under
// unlimited concurrency; writes replace entries whole, so readers observe
// either the old or the new configuration, never a partial one.
type Catalog struct {
	mu      sync.RWMutex
	entries map[key]ModelConfig
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{entries: make(map[key]ModelConfig)}
}

// Default returns a catalog pre-populated with a small two-provider model
// set. It is a starting point, not a source of truth: production deployments
// should load their own catalog via LoadFile and keep it current with Watch.
func Default() *Catalog {
	c := New()
	for _, e := range defaultEntries {
		c.Set(e.tier, e.cfg)
	}
	return c
}

type defaultEntry struct {
	tier Tier
	cfg  ModelConfig
}

// defaultEntries holds the built-in catalog. Rates are USD per 1K tokens.
var defaultEntries = []defaultEntry{
	{TierPremium, ModelConfig{
		Provider: "anthropic", Model: "claude-opus", Version: "4",
		MaxOutputTokens: 8192, Temperature: 0.7, ContextWindow: 200_000,
		InputCostPer1K: 0.015, OutputCostPer1K: 0.075,
		Fallbacks: []ModelRef{
			{TierStandard, "anthropic", "claude-sonnet"},
			{TierEconomy, "anthropic", "claude-haiku"},
		},
	}},
	{TierStandard, ModelConfig{
		Provider: "anthropic", Model: "claude-sonnet", Version: "4",
		MaxOutputTokens: 8192, Temperature: 0.7, ContextWindow: 200_000,
		InputCostPer1K: 0.003, OutputCostPer1K: 0.015,
		Fallbacks: []ModelRef{
			{TierEconomy, "anthropic", "claude-haiku"},
		},
	}},
	{TierEconomy, ModelConfig{
		Provider: "anthropic", Model: "claude-haiku", Version: "3.5",
		MaxOutputTokens: 4096, Temperature: 0.7, ContextWindow: 200_000,
		InputCostPer1K: 0.00025, OutputCostPer1K: 0.00125,
	}},
	{TierPremium, ModelConfig{
		Provider: "openai", Model: "o3", Version: "2025-04",
		MaxOutputTokens: 8192, Temperature: 0.7, ContextWindow: 200_000,
		InputCostPer1K: 0.01, OutputCostPer1K: 0.04,
		Fallbacks: []ModelRef{
			{TierStandard, "openai", "gpt-4o"},
			{TierEconomy, "openai", "gpt-4o-mini"},
		},
	}},
	{TierStandard, ModelConfig{
		Provider: "openai", Model: "gpt-4o", Version: "2024-11",
		MaxOutputTokens: 8192, Temperature: 0.7, ContextWindow: 128_000,
		InputCostPer1K: 0.0025, OutputCostPer1K: 0.01,
		Fallbacks: []ModelRef{
			{TierEconomy, "openai", "gpt-4o-mini"},
		},
	}},
	{TierEconomy, ModelConfig{
		Provider: "openai", Model: "gpt-4o-mini", Version: "2024-07",
		MaxOutputTokens: 4096, Temperature: 0.7, ContextWindow: 128_000,
		InputCostPer1K: 0.00015, OutputCostPer1K: 0.0006,
	}},
}

// Set stores or replaces the entry for (tier, cfg.Provider).
func (c *Catalog) Set(tier Tier, cfg ModelConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key{tier, cfg.Provider}] = cloneConfig(cfg)
}

// Lookup returns the base catalog entry for (tier, provider).
// Returns an error wrapping ErrUnknownModel if no entry exists.
func (c *Catalog) Lookup(tier Tier, provider Provider) (ModelConfig, error) {
	c.mu.RLock()
	cfg, ok := c.entries[key{tier, provider}]
	c.mu.RUnlock()

	if !ok {
		return ModelConfig{}, newError("lookup", tier, provider, ErrUnknownModel)
	}
	return cloneConfig(cfg), nil
}

// Providers returns the distinct providers present in the catalog,
// sorted alphabetically for consistent ordering.
func (c *Catalog) Providers() []Provider {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[Provider]struct{})
	for k := range c.entries {
		seen[k.provider] = struct{}{}
	}
	providers := make([]Provider, 0, len(seen))
	for p := range seen {
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i] < providers[j] })
	return providers
}

// Resolve returns the model configuration for (tier, provider) under the
// given client configuration. The base entry is merged field-by-field with
// the client's per-tier overrides, the client's pinned version (if any)
// replaces the model identifier, and the fallback chain is extended with one
// same-tier entry per additional allowed provider beyond the resolved one.
//
// client may be nil, in which case the base entry is returned unchanged.
func (c *Catalog) Resolve(tier Tier, provider Provider, client *ClientConfig) (ModelConfig, error) {
	cfg, err := c.Lookup(tier, provider)
	if err != nil {
		return ModelConfig{}, newError("resolve", tier, provider, ErrUnknownModel)
	}
	if client == nil {
		return cfg, nil
	}

	if ov, ok := client.TierOverrides[tier]; ok {
		if ov.Model != "" {
			cfg.Model = ov.Model
		}
		if ov.Version != "" {
			cfg.Version = ov.Version
		}
		if ov.MaxOutputTokens != 0 {
			cfg.MaxOutputTokens = ov.MaxOutputTokens
		}
		if ov.Temperature != 0 {
			cfg.Temperature = ov.Temperature
		}
		if ov.ContextWindow != 0 {
			cfg.ContextWindow = ov.ContextWindow
		}
	}

	if pin, ok := client.PinnedVersions[provider]; ok && pin != "" {
		cfg.Model = pin
		cfg.Version = pin
	}

	for _, alt := range client.AllowedProviders {
		if alt == provider {
			continue
		}
		entry, err := c.Lookup(tier, alt)
		if err != nil {
			// Allowed providers without a catalog entry at this tier
			// contribute nothing to the chain.
			continue
		}
		cfg.Fallbacks = append(cfg.Fallbacks, ModelRef{Tier: tier, Provider: alt, Model: entry.Model})
	}

	// The chain never includes the resolved entry itself.
	filtered := cfg.Fallbacks[:0]
	for _, ref := range cfg.Fallbacks {
		if ref.Tier == tier && ref.Provider == cfg.Provider && ref.Model == cfg.Model {
			continue
		}
		filtered = append(filtered, ref)
	}
	cfg.Fallbacks = filtered

	return cfg, nil
}

// EstimateCost returns the estimated USD cost of a request against the
// (tier, provider) entry: (in/1000)*rateIn + (out/1000)*rateOut.
func (c *Catalog) EstimateCost(tier Tier, provider Provider, inputTokens, outputTokens int) (float64, error) {
	cfg, err := c.Lookup(tier, provider)
	if err != nil {
		return 0, newError("estimate", tier, provider, ErrUnknownModel)
	}
	return costFor(cfg, inputTokens, outputTokens), nil
}

// EstimateMonthlyBudget projects a monthly spend for a steady request rate
// with the given average token counts, assuming a 30-day month.
func (c *Catalog) EstimateMonthlyBudget(tier Tier, provider Provider, requestsPerDay, avgInputTokens, avgOutputTokens int) (float64, error) {
	perRequest, err := c.EstimateCost(tier, provider, avgInputTokens, avgOutputTokens)
	if err != nil {
		return 0, err
	}
	return perRequest * float64(requestsPerDay) * 30, nil
}

func costFor(cfg ModelConfig, inputTokens, outputTokens int) float64 {
	return float64(inputTokens)/1000*cfg.InputCostPer1K +
		float64(outputTokens)/1000*cfg.OutputCostPer1K
}

// Representative token counts used by RecommendTier's budget check.
const (
	recommendInputTokens  = 2000
	recommendOutputTokens = 1000
)

// RecommendTier maps qualitative task descriptors to a tier, then downgrades
// one step at a time while a representative per-request cost estimate exceeds
// budgetPerRequest, stopping at TierEconomy. A budgetPerRequest of zero or
// below disables the budget check.
//
// The cost estimate uses the cheapest provider available at each tier; tiers
// with no catalog entries are not downgraded further on cost grounds.
func (c *Catalog) RecommendTier(taskType, complexity, quality string, budgetPerRequest float64) Tier {
	tier := heuristicTier(taskType, complexity, quality)
	if budgetPerRequest <= 0 {
		return tier
	}

	for tier > TierEconomy {
		est, ok := c.cheapestEstimate(tier, recommendInputTokens, recommendOutputTokens)
		if !ok || est <= budgetPerRequest {
			break
		}
		tier = tier.Downgrade()
	}
	return tier
}

// cheapestEstimate returns the lowest cost estimate across providers at the
// given tier, and whether any entry exists at that tier.
func (c *Catalog) cheapestEstimate(tier Tier, inputTokens, outputTokens int) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	best := 0.0
	found := false
	for k, cfg := range c.entries {
		if k.tier != tier {
			continue
		}
		est := costFor(cfg, inputTokens, outputTokens)
		if !found || est < best {
			best = est
			found = true
		}
	}
	return best, found
}

// heuristicTier scores the qualitative inputs and maps the total to a tier.
func heuristicTier(taskType, complexity, quality string) Tier {
	score := 0

	switch strings.ToLower(strings.TrimSpace(complexity)) {
	case "high", "complex":
		score += 2
	case "low", "simple", "trivial":
		// no points
	default: // medium or unrecognized
		score++
	}

	switch strings.ToLower(strings.TrimSpace(quality)) {
	case "best", "highest", "premium":
		score += 2
	case "draft", "basic", "low":
		// no points
	default: // standard or unrecognized
		score++
	}

	switch strings.ToLower(strings.TrimSpace(taskType)) {
	case "analysis", "architecture", "code_generation", "reasoning":
		score++
	}

	switch {
	case score >= 4:
		return TierPremium
	case score >= 2:
		return TierStandard
	default:
		return TierEconomy
	}
}

// cloneConfig deep-copies a ModelConfig so callers never alias catalog state.
func cloneConfig(cfg ModelConfig) ModelConfig {
	if len(cfg.Fallbacks) > 0 {
		fallbacks := make([]ModelRef, len(cfg.Fallbacks))
		copy(fallbacks, cfg.Fallbacks)
		cfg.Fallbacks = fallbacks
	}
	return cfg
}
