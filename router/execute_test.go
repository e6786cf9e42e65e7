package router_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routekit/routekit/assess"
	"github.com/routekit/routekit/catalog"
	"github.com/routekit/routekit/router"
	"github.com/routekit/routekit/usage"
)

// recordingExecutor fails the first failures attempts and then succeeds,
// remembering every request it saw.
type recordingExecutor struct {
	mu       sync.Mutex
	failures int
	seen     []router.ExecuteRequest
}

func (e *recordingExecutor) Execute(_ context.Context, req router.ExecuteRequest) (*router.ExecuteResponse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.seen = append(e.seen, req)
	if len(e.seen) <= e.failures {
		return nil, errors.New("backend unavailable")
	}
	return &router.ExecuteResponse{
		Content:      "ok",
		Model:        req.Model,
		InputTokens:  req.ContextTokens,
		OutputTokens: 200,
	}, nil
}

// premiumRequest routes to the anthropic premium entry, whose default
// fallback chain is sonnet then haiku.
func premiumRequest() router.Request {
	return router.Request{
		ClientID:          "acme",
		TaskType:          assess.TaskCodeGeneration,
		ContextTokens:     4000,
		Instructions:      "generate the module",
		TierOverride:      catalog.TierPremium,
		PreferredProvider: "anthropic",
	}
}

func TestRouteAndExecutePrimarySucceeds(t *testing.T) {
	exec := &recordingExecutor{}
	rt := router.New(catalog.Default(), router.WithExecutor(exec))

	res, err := rt.RouteAndExecute(context.Background(), premiumRequest())
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.False(t, res.FallbackUsed)
	assert.Equal(t, 1, res.Attempts)
	require.NotNil(t, res.Response)
	assert.Equal(t, "claude-opus", res.Response.Model)
	assert.Len(t, exec.seen, 1)
	assert.Equal(t, 0, exec.seen[0].Attempt)
}

func TestRouteAndExecuteFallsBackOnce(t *testing.T) {
	exec := &recordingExecutor{failures: 1}
	rt := router.New(catalog.Default(), router.WithExecutor(exec))

	res, err := rt.RouteAndExecute(context.Background(), premiumRequest())
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.True(t, res.FallbackUsed)
	assert.Equal(t, 2, res.Attempts)
	require.Len(t, exec.seen, 2)
	assert.Equal(t, "claude-opus", exec.seen[0].Model)
	assert.Equal(t, "claude-sonnet", exec.seen[1].Model)
	assert.Equal(t, catalog.TierStandard, exec.seen[1].Tier)
}

func TestRouteAndExecuteChainExhausted(t *testing.T) {
	exec := &recordingExecutor{failures: 100}
	rt := router.New(catalog.Default(), router.WithExecutor(exec))

	res, err := rt.RouteAndExecute(context.Background(), premiumRequest())
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "exhausted")
	assert.Contains(t, res.Error, "backend unavailable")
	// Primary plus the two default fallbacks.
	assert.Equal(t, 3, res.Attempts)
	assert.Len(t, exec.seen, 3)
	assert.Nil(t, res.Response)
}

func TestRouteAndExecuteRequestIDStableAcrossAttempts(t *testing.T) {
	exec := &recordingExecutor{failures: 2}
	rt := router.New(catalog.Default(), router.WithExecutor(exec))

	res, err := rt.RouteAndExecute(context.Background(), premiumRequest())
	require.NoError(t, err)
	require.True(t, res.Success)

	for _, seen := range exec.seen {
		assert.Equal(t, res.RequestID, seen.RequestID)
		assert.Equal(t, "acme", seen.ClientID)
	}
}

func TestRouteAndExecuteBudgetBlockSkipsExecution(t *testing.T) {
	exec := &recordingExecutor{}
	rt := router.New(catalog.Default(), router.WithExecutor(exec))
	rt.SetClientConfig("acme", &catalog.ClientConfig{MaxDailyCost: 1.00})
	rt.RecordUsage("acme", usage.Record{Cost: 2.00, Tokens: 10_000})

	res, err := rt.RouteAndExecute(context.Background(), premiumRequest())
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "budget")
	assert.Empty(t, exec.seen)
}

func TestRouteAndExecuteNoExecutor(t *testing.T) {
	rt := router.New(catalog.Default())

	_, err := rt.RouteAndExecute(context.Background(), premiumRequest())
	assert.ErrorIs(t, err, router.ErrNoExecutor)
}

func TestRouteAndExecuteRecordsUsageWhenEnabled(t *testing.T) {
	exec := &recordingExecutor{}
	rt := router.New(catalog.Default(),
		router.WithExecutor(exec),
		router.WithUsageRecording(true),
	)

	res, err := rt.RouteAndExecute(context.Background(), premiumRequest())
	require.NoError(t, err)
	require.True(t, res.Success)

	stats := rt.UsageStats("acme")
	assert.Equal(t, 1, stats.RequestCount)
	assert.Equal(t, 4200, stats.TotalTokens) // 4000 in + 200 out
	assert.Greater(t, stats.TotalCost, 0.0)  // estimate used when backend reports no cost
	assert.Contains(t, stats.ByTier, catalog.TierPremium)
}

func TestRouteAndExecuteRecordingOffByDefault(t *testing.T) {
	exec := &recordingExecutor{}
	rt := router.New(catalog.Default(), router.WithExecutor(exec))

	_, err := rt.RouteAndExecute(context.Background(), premiumRequest())
	require.NoError(t, err)

	assert.Equal(t, 0, rt.UsageStats("acme").RequestCount)
}

func TestRouteAndExecuteFailureRecordsNothing(t *testing.T) {
	exec := &recordingExecutor{failures: 100}
	rt := router.New(catalog.Default(),
		router.WithExecutor(exec),
		router.WithUsageRecording(true),
	)

	_, err := rt.RouteAndExecute(context.Background(), premiumRequest())
	require.NoError(t, err)

	assert.Equal(t, 0, rt.UsageStats("acme").RequestCount)
}

func TestRouteAndExecuteCancelledContextAdvancesChain(t *testing.T) {
	calls := 0
	exec := router.ExecutorFunc(func(ctx context.Context, _ router.ExecuteRequest) (*router.ExecuteResponse, error) {
		calls++
		return nil, ctx.Err()
	})
	rt := router.New(catalog.Default(), router.WithExecutor(exec))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := rt.RouteAndExecute(ctx, premiumRequest())
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, 3, calls, "cancellation fails each attempt in turn")
}

func TestMuxDispatchesAcrossProviders(t *testing.T) {
	var anthropicCalls, openaiCalls int
	mux := router.NewMux()
	mux.Register("anthropic", router.ExecutorFunc(func(context.Context, router.ExecuteRequest) (*router.ExecuteResponse, error) {
		anthropicCalls++
		return nil, errors.New("down")
	}))
	mux.Register("openai", router.ExecutorFunc(func(_ context.Context, req router.ExecuteRequest) (*router.ExecuteResponse, error) {
		openaiCalls++
		return &router.ExecuteResponse{Content: "ok", Model: req.Model}, nil
	}))

	rt := router.New(catalog.Default(), router.WithExecutor(mux))
	rt.SetClientConfig("acme", &catalog.ClientConfig{
		AllowedProviders: []catalog.Provider{"anthropic", "openai"},
	})

	// Economy anthropic has no configured fallbacks, but the allow list
	// extends the chain with the same-tier openai entry.
	res, err := rt.RouteAndExecute(context.Background(), router.Request{
		ClientID:          "acme",
		TaskType:          assess.TaskChat,
		Instructions:      "hi",
		TierOverride:      catalog.TierEconomy,
		PreferredProvider: "anthropic",
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	assert.True(t, res.FallbackUsed)
	assert.Equal(t, 1, anthropicCalls)
	assert.Equal(t, 1, openaiCalls)
	assert.Equal(t, "gpt-4o-mini", res.Response.Model)
}

func TestMuxUnregisteredProviderFailsAttempt(t *testing.T) {
	mux := router.NewMux()
	_, err := mux.Execute(context.Background(), router.ExecuteRequest{Provider: "nobody"})
	assert.ErrorIs(t, err, router.ErrNoExecutor)
}
