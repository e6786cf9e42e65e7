package router

import "errors"

// Sentinel errors for routing operations.
var (
	// ErrBudgetExhausted indicates the client's daily budget is spent.
	// Retryable only after the budget window resets.
	ErrBudgetExhausted = errors.New("daily budget exhausted")

	// ErrFallbackExhausted indicates every entry in the fallback chain
	// failed. It wraps the last underlying attempt error.
	ErrFallbackExhausted = errors.New("fallback chain exhausted")

	// ErrNoExecutor indicates the router (or mux) has no executor for the
	// attempted provider.
	ErrNoExecutor = errors.New("no executor registered")
)
