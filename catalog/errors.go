package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for catalog operations.
var (
	// ErrUnknownModel indicates no catalog entry exists for a (tier, provider)
	// pair. This is a configuration fault and is never retryable: there is no
	// safe default for a malformed catalog lookup.
	ErrUnknownModel = errors.New("no model configured for tier/provider")

	// ErrInvalidCatalog indicates a catalog file failed validation.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Error wraps catalog errors with the lookup that failed.
type Error struct {
	Tier     Tier     // Tier being resolved
	Provider Provider // Provider being resolved
	Op       string   // Operation that failed ("resolve", "estimate", "load")
	Err      error    // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("catalog %s %s/%s: %v", e.Op, e.Tier, e.Provider, e.Err)
	}
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// newError creates a catalog error for a (tier, provider) lookup.
func newError(op string, tier Tier, provider Provider, err error) *Error {
	return &Error{Tier: tier, Provider: provider, Op: op, Err: err}
}

// IsConfigError reports whether err is a catalog configuration fault.
// Configuration faults are fatal and must not be retried.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrUnknownModel) || errors.Is(err, ErrInvalidCatalog)
}
