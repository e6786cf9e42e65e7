// Package router selects a model tier and provider for each request and,
// optionally, drives execution across the resolved fallback chain.
//
// A Router combines the model catalog, the complexity assessor, the usage
// ledger, and the experiment registry behind two entry points:
//
//	rt := router.New(catalog.Default())
//	res, err := rt.Route(router.Request{
//		ClientID:      "acme",
//		TaskType:      assess.TaskCodeGeneration,
//		ContextTokens: 12000,
//		Instructions:  "refactor the scheduler and prove the invariants hold",
//	})
//
// Route returns a decision without side effects. RouteAndExecute routes and
// then runs the request through an Executor, trying the primary model first
// and each fallback in order until one succeeds:
//
//	mux := router.NewMux()
//	mux.Register("openai", openaiExec)
//	mux.Register("anthropic", anthropicExec)
//	rt = router.New(catalog.Default(), router.WithExecutor(mux))
//	res, err = rt.RouteAndExecute(ctx, req)
//
// Decisions layer in a fixed order: complexity assessment, explicit tier
// override, experiment variant, then budget admission. A client at or over
// its daily limit is rejected; a client within 10% of the limit is admitted
// one tier lower with a warning flag. Budget checks read a point-in-time
// ledger snapshot and are deliberately not transactional.
package router
