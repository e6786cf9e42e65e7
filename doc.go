// Package routekit provides adaptive tier routing for LLM workloads.
//
// routekit decides which model tier and provider should serve a request,
// based on a multi-factor complexity assessment, per-client configuration,
// budget admission control, and sticky A/B experiments. Each subpackage can
// be used independently:
//
//   - catalog: tier/provider registry with cost estimation and client overrides
//   - assess: five-factor task complexity assessment with tier recommendation
//   - usage: append-only per-client usage ledger with daily/total aggregates
//   - experiment: variant definitions with sticky per-client assignment
//   - router: the orchestrator tying the above together, with fallback execution
//   - tokens: tokenizer-free token estimation for sizing requests
//
// # Quick Start
//
// Route a request:
//
//	cat := catalog.Default()
//	rt := router.New(cat)
//	res, err := rt.Route(router.Request{
//	    ClientID:      "acme",
//	    TaskType:      assess.TaskCodeGeneration,
//	    ContextTokens: 12000,
//	    Instructions:  "Refactor the scheduler and explain the trade-offs",
//	})
//
// Route and execute across the fallback chain:
//
//	mux := router.NewMux()
//	mux.Register("openai", myOpenAIExecutor)
//	mux.Register("anthropic", myAnthropicExecutor)
//	rt := router.New(cat, router.WithExecutor(mux))
//	res, err := rt.RouteAndExecute(ctx, router.Request{...})
//
// # Design Philosophy
//
//   - No process-wide singletons: all state lives on explicit objects
//   - Result-carried errors for routing decisions, Go errors for config faults
//   - Execution is an opaque capability; routekit never talks to a provider SDK
//   - Budgets are guidance: admission checks are best-effort, not transactional
package routekit
