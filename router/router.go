package router

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/routekit/routekit/assess"
	"github.com/routekit/routekit/catalog"
	"github.com/routekit/routekit/experiment"
	"github.com/routekit/routekit/tokens"
	"github.com/routekit/routekit/usage"
)

// DefaultProvider is the process-wide provider default, used when neither
// the request nor the client configuration names one.
const DefaultProvider catalog.Provider = "openai"

// LatencyPriority values for Request.LatencyPriority.
const (
	LatencyHigh = "high"
	LatencyLow  = "low"
)

// budgetWarningFraction of the daily limit at which requests are admitted
// with a warning and a one-step tier downgrade.
const budgetWarningFraction = 0.9

// Request describes one routing call.
type Request struct {
	// ClientID identifies the calling client. Clients without a stored
	// configuration get catalog defaults and no budget limits.
	ClientID string

	// TaskType, ContextTokens, and Instructions feed the complexity
	// assessment. When ContextTokens is zero it is estimated from the
	// instructions text.
	TaskType      assess.TaskType
	ContextTokens int
	Instructions  string

	// PreferredProvider overrides the client's default provider, subject
	// to the client's allow list.
	PreferredProvider catalog.Provider

	// TierOverride forces the tier, bypassing the assessment.
	// TierUnknown means no override.
	TierOverride catalog.Tier

	// ExpectedOutputTokens sizes the cost estimate. Zero defaults to 1000.
	ExpectedOutputTokens int

	// ExperimentID routes the request under a sticky experiment variant.
	ExperimentID string

	// LatencyPriority marks latency-sensitive requests; see LatencyHigh.
	LatencyPriority string
}

// Result is the routing decision bundle. It carries either complete routing
// data (Success true) or a descriptive error (Success false, Error set) —
// never an ambiguous partial state.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	// RequestID is a fresh id minted for this decision.
	RequestID string `json:"request_id"`

	// SelectedTier and ModelConfig describe the chosen target.
	SelectedTier catalog.Tier        `json:"selected_tier"`
	ModelConfig  catalog.ModelConfig `json:"model_config"`

	// Complexity is the assessment that drove the decision.
	Complexity assess.Score `json:"complexity"`

	// EstimatedCost is the projected USD cost of the request.
	EstimatedCost float64 `json:"estimated_cost"`

	// Decision annotations.
	BudgetWarning     bool   `json:"budget_warning,omitempty"`
	OverrideApplied   bool   `json:"override_applied,omitempty"`
	ExperimentVariant string `json:"experiment_variant,omitempty"`
	LatencyOptimized  bool   `json:"latency_optimized,omitempty"`

	// Execution annotations, set by RouteAndExecute.
	FallbackUsed bool             `json:"fallback_used,omitempty"`
	Attempts     int              `json:"attempts,omitempty"`
	Response     *ExecuteResponse `json:"response,omitempty"`
}

// Router orchestrates assessment, tier/provider resolution, budget
// admission, and fallback execution over one explicit context object.
// No process-wide state is involved; independent routers are fully
// isolated, which is what makes multi-tenant setups and tests cheap.
type Router struct {
	catalog     *catalog.Catalog
	assessor    *assess.Assessor
	ledger      *usage.Ledger
	experiments *experiment.Registry
	executor    Executor

	defaultProvider catalog.Provider
	recordUsage     bool
	newID           func() string

	mu      sync.RWMutex
	clients map[string]*catalog.ClientConfig
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithAssessor replaces the default complexity assessor.
func WithAssessor(a *assess.Assessor) RouterOption {
	return func(r *Router) { r.assessor = a }
}

// WithLedger replaces the default usage ledger.
func WithLedger(l *usage.Ledger) RouterOption {
	return func(r *Router) { r.ledger = l }
}

// WithExperiments replaces the default experiment registry.
func WithExperiments(e *experiment.Registry) RouterOption {
	return func(r *Router) { r.experiments = e }
}

// WithExecutor sets the executor RouteAndExecute drives.
func WithExecutor(e Executor) RouterOption {
	return func(r *Router) { r.executor = e }
}

// WithDefaultProvider overrides the process-wide provider default.
func WithDefaultProvider(p catalog.Provider) RouterOption {
	return func(r *Router) { r.defaultProvider = p }
}

// WithUsageRecording makes RouteAndExecute record a usage ledger entry
// after a successful attempt. Off by default: plain Route never writes to
// the ledger, and with recording off, charging is entirely the caller's
// responsibility.
func WithUsageRecording(enabled bool) RouterOption {
	return func(r *Router) { r.recordUsage = enabled }
}

// New creates a router over the given catalog.
func New(cat *catalog.Catalog, opts ...RouterOption) *Router {
	r := &Router{
		catalog:         cat,
		assessor:        assess.New(),
		ledger:          usage.NewLedger(),
		experiments:     experiment.NewRegistry(),
		defaultProvider: DefaultProvider,
		newID:           uuid.NewString,
		clients:         make(map[string]*catalog.ClientConfig),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetClientConfig stores a client's configuration. The replacement is
// whole-object and last-write-wins; concurrent readers see either the old
// or the new configuration.
func (r *Router) SetClientConfig(clientID string, cfg *catalog.ClientConfig) {
	r.mu.Lock()
	r.clients[clientID] = cfg
	r.mu.Unlock()
}

// ClientConfig returns the client's stored configuration, or nil.
func (r *Router) ClientConfig(clientID string) *catalog.ClientConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients[clientID]
}

// Route makes a routing decision for the request without executing it.
// Route never writes to the usage ledger.
//
// The returned error is non-nil only for unrecoverable configuration
// faults (an unknown tier/provider pair). Admission failures — an
// exhausted budget — come back as a Result with Success false and a
// descriptive Error; budget checks are best-effort snapshots, not
// transactional caps.
func (r *Router) Route(req Request) (*Result, error) {
	requestID := r.newID()
	client := r.ClientConfig(req.ClientID)

	if req.ContextTokens == 0 && req.Instructions != "" {
		req.ContextTokens = tokens.Estimate(req.Instructions)
	}

	assessment := r.assessor.Assess(assess.Request{
		TaskType:      req.TaskType,
		ContextTokens: req.ContextTokens,
		Instructions:  req.Instructions,
		TrackingID:    requestID,
	})

	res := &Result{
		RequestID:  requestID,
		Complexity: assessment,
	}

	tier := assessment.RecommendedTier
	if req.TaskType == "" && req.Instructions == "" && client != nil && client.DefaultTier.Valid() {
		// Nothing to assess; the client's configured default beats the
		// neutral recommendation.
		tier = client.DefaultTier
	}

	if req.TierOverride.Valid() {
		tier = req.TierOverride
		res.OverrideApplied = true
	}

	var variant experiment.Variant
	if req.ExperimentID != "" {
		name, v, err := r.experiments.Variant(req.ClientID, req.ExperimentID)
		if err == nil {
			// Unknown experiment ids are skipped: routing has a safe
			// default, so the reference is not an error.
			res.ExperimentVariant = name
			variant = v
			if v.Tier.Valid() {
				tier = v.Tier
			}
		}
	}

	if client != nil && (client.MaxDailyCost > 0 || client.MaxMonthlyCost > 0) {
		stats := r.ledger.Stats(req.ClientID)
		if client.MaxMonthlyCost > 0 && stats.MonthlyCost >= client.MaxMonthlyCost {
			res.Success = false
			res.Error = fmt.Sprintf("%v: monthly cost %.4f reached limit %.4f",
				ErrBudgetExhausted, stats.MonthlyCost, client.MaxMonthlyCost)
			return res, nil
		}
		if client.MaxDailyCost > 0 {
			switch {
			case stats.DailyCost >= client.MaxDailyCost:
				res.Success = false
				res.Error = fmt.Sprintf("%v: daily cost %.4f reached limit %.4f",
					ErrBudgetExhausted, stats.DailyCost, client.MaxDailyCost)
				return res, nil
			case stats.DailyCost >= budgetWarningFraction*client.MaxDailyCost:
				res.BudgetWarning = true
				tier = tier.Downgrade()
			}
		}
	}

	provider := r.pickProvider(req, client, variant)

	modelConfig, err := r.catalog.Resolve(tier, provider, client)
	if err != nil {
		return nil, err
	}

	outputTokens := req.ExpectedOutputTokens
	if outputTokens <= 0 {
		outputTokens = 1000
	}
	estimated, err := r.catalog.EstimateCost(tier, provider, req.ContextTokens, outputTokens)
	if err != nil {
		return nil, err
	}

	res.Success = true
	res.SelectedTier = tier
	res.ModelConfig = modelConfig
	res.EstimatedCost = estimated
	res.LatencyOptimized = req.LatencyPriority == LatencyHigh && tier == catalog.TierEconomy
	return res, nil
}

// pickProvider chooses the provider: the request's preference (when the
// client's allow list permits it), then the experiment variant's provider,
// then the client default, then the process default.
func (r *Router) pickProvider(req Request, client *catalog.ClientConfig, variant experiment.Variant) catalog.Provider {
	if req.PreferredProvider != "" && client.Allows(req.PreferredProvider) {
		return req.PreferredProvider
	}
	if variant.Provider != "" && client.Allows(variant.Provider) {
		return variant.Provider
	}
	if client != nil && client.DefaultProvider != "" {
		return client.DefaultProvider
	}
	return r.defaultProvider
}

// RouteAndExecute routes the request and, when admitted, drives the
// executor across the resolved fallback chain: the primary entry first,
// then each fallback in order, strictly sequentially. The first successful
// attempt wins; a failed attempt (including a cancelled one) advances to
// the next entry. When every attempt fails, the result reports Success
// false with an error wrapping the last attempt's failure.
func (r *Router) RouteAndExecute(ctx context.Context, req Request) (*Result, error) {
	res, err := r.Route(req)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return res, nil
	}
	if r.executor == nil {
		return res, fmt.Errorf("route and execute: %w", ErrNoExecutor)
	}

	attempts := make([]catalog.ModelRef, 0, 1+len(res.ModelConfig.Fallbacks))
	attempts = append(attempts, catalog.ModelRef{
		Tier:     res.SelectedTier,
		Provider: res.ModelConfig.Provider,
		Model:    res.ModelConfig.Model,
	})
	attempts = append(attempts, res.ModelConfig.Fallbacks...)

	var lastErr error
	for i, ref := range attempts {
		resp, execErr := r.executor.Execute(ctx, ExecuteRequest{
			RequestID:       res.RequestID,
			ClientID:        req.ClientID,
			Tier:            ref.Tier,
			Provider:        ref.Provider,
			Model:           ref.Model,
			MaxOutputTokens: res.ModelConfig.MaxOutputTokens,
			Temperature:     res.ModelConfig.Temperature,
			Instructions:    req.Instructions,
			ContextTokens:   req.ContextTokens,
			Attempt:         i,
		})
		if execErr != nil {
			lastErr = execErr
			continue
		}

		res.Response = resp
		res.FallbackUsed = i > 0
		res.Attempts = i + 1
		if r.recordUsage {
			r.ledger.Record(req.ClientID, usageFor(req, res, ref, resp))
		}
		return res, nil
	}

	res.Success = false
	res.Attempts = len(attempts)
	res.Error = fmt.Sprintf("%v: %v", ErrFallbackExhausted, lastErr)
	return res, nil
}

// usageFor builds the ledger record for a successful attempt, preferring
// backend-reported figures over estimates.
func usageFor(req Request, res *Result, ref catalog.ModelRef, resp *ExecuteResponse) usage.Record {
	cost := resp.CostUSD
	if cost == 0 {
		cost = res.EstimatedCost
	}
	tokens := resp.InputTokens + resp.OutputTokens
	if tokens == 0 {
		tokens = req.ContextTokens
	}
	return usage.Record{
		Cost:     cost,
		Tokens:   tokens,
		Tier:     ref.Tier,
		Provider: ref.Provider,
	}
}
