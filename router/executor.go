package router

import (
	"context"
	"time"

	"github.com/routekit/routekit/catalog"
)

// ExecuteRequest is the fully resolved request handed to an Executor for
// one attempt. Each fallback attempt gets its own ExecuteRequest with the
// attempt's tier, provider, and model filled in.
type ExecuteRequest struct {
	// RequestID is the routing decision's id, stable across attempts.
	RequestID string `json:"request_id"`

	// ClientID identifies the calling client.
	ClientID string `json:"client_id"`

	// Tier, Provider, and Model identify the attempt's target.
	Tier     catalog.Tier     `json:"tier"`
	Provider catalog.Provider `json:"provider"`
	Model    string           `json:"model"`

	// MaxOutputTokens and Temperature come from the resolved model config.
	MaxOutputTokens int     `json:"max_output_tokens"`
	Temperature     float64 `json:"temperature"`

	// Instructions and ContextTokens echo the routed request.
	Instructions  string `json:"instructions"`
	ContextTokens int    `json:"context_tokens"`

	// Attempt is the zero-based position in the fallback chain.
	Attempt int `json:"attempt"`
}

// ExecuteResponse is the outcome of a successful attempt.
type ExecuteResponse struct {
	// Content is the model's output.
	Content string `json:"content"`

	// InputTokens and OutputTokens report actual token consumption,
	// when the backend provides it. Zero when unknown.
	InputTokens  int `json:"input_tokens,omitempty"`
	OutputTokens int `json:"output_tokens,omitempty"`

	// CostUSD is the backend-reported cost. Zero when unknown.
	CostUSD float64 `json:"cost_usd,omitempty"`

	// Model is the model that actually served the request.
	Model string `json:"model,omitempty"`

	// Duration is the attempt's wall time.
	Duration time.Duration `json:"duration,omitempty"`
}

// Executor is the single-method capability the router drives during
// RouteAndExecute. Implementations wrap real model backends; the router
// never talks to a provider SDK itself.
//
// The context carries the caller's deadline. Cancellation of one attempt
// is treated like any other attempt failure: the router advances to the
// next fallback entry rather than retrying in place.
//
// Implementations must be safe for concurrent use.
type Executor interface {
	Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResponse, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, req ExecuteRequest) (*ExecuteResponse, error)

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResponse, error) {
	return f(ctx, req)
}
