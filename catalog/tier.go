// Package catalog provides the tier/provider registry: a catalog of model
// configurations keyed by (tier, provider), merged at resolution time with
// per-client overrides, pinned versions, and allowed-provider fallbacks.
//
// The catalog is a replaceable registry. Use Default for a small built-in
// catalog, New for an empty one, or LoadFile to read one from TOML.
package catalog

import (
	"fmt"
	"strings"
)

// Tier represents a model quality/cost level. Tiers are totally ordered:
// TierPremium > TierStandard > TierEconomy.
type Tier int

// Tier constants in ascending order of capability and cost.
// The zero value TierUnknown means "not specified".
const (
	TierUnknown Tier = iota
	TierEconomy
	TierStandard
	TierPremium
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierEconomy:
		return "economy"
	case TierStandard:
		return "standard"
	case TierPremium:
		return "premium"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	return t == TierEconomy || t == TierStandard || t == TierPremium
}

// Downgrade returns the tier one step below t, flooring at TierEconomy.
func (t Tier) Downgrade() Tier {
	if t <= TierEconomy {
		return TierEconomy
	}
	return t - 1
}

// ParseTier converts a tier name to a Tier. Matching is case-insensitive.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "economy":
		return TierEconomy, nil
	case "standard":
		return TierStandard, nil
	case "premium":
		return TierPremium, nil
	default:
		return TierUnknown, fmt.Errorf("unknown tier %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("cannot marshal tier %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, enabling Tier fields
// in TOML and YAML configuration files.
func (t *Tier) UnmarshalText(text []byte) error {
	parsed, err := ParseTier(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Tiers returns all defined tiers in ascending order.
func Tiers() []Tier {
	return []Tier{TierEconomy, TierStandard, TierPremium}
}

// Provider identifies an external model-serving backend by a stable key,
// e.g. "openai" or "anthropic". The set of providers is configurable; the
// catalog attaches no meaning to the value beyond map identity.
type Provider string
