package router

import (
	"github.com/routekit/routekit/assess"
	"github.com/routekit/routekit/experiment"
	"github.com/routekit/routekit/usage"
)

// The methods below expose the router's subsystems through one surface so
// that callers holding only a *Router can administer budgets, experiments,
// and assessment feedback without reaching into the components.

// RecordUsage appends a usage record for a client. Call it after execution
// completes when usage recording is not enabled on the router itself.
func (r *Router) RecordUsage(clientID string, rec usage.Record) {
	r.ledger.Record(clientID, rec)
}

// UsageStats returns the client's aggregate usage.
func (r *Router) UsageStats(clientID string) usage.Stats {
	return r.ledger.Stats(clientID)
}

// ResetDailyUsage clears the client's current-day spend, reopening the
// daily budget window.
func (r *Router) ResetDailyUsage(clientID string) {
	r.ledger.ResetDaily(clientID)
}

// UsageHistory returns the client's per-day usage for the most recent days.
func (r *Router) UsageHistory(clientID string, days int) []usage.DayStats {
	return r.ledger.History(clientID, days)
}

// EnrollExperiment registers or redefines an experiment.
func (r *Router) EnrollExperiment(experimentID string, cfg experiment.Config) {
	r.experiments.Enroll(experimentID, cfg)
}

// RecordExperimentOutcome records the observed outcome of a routed request
// that ran under an experiment, keyed by the request id.
func (r *Router) RecordExperimentOutcome(requestID string, out experiment.Outcome) {
	r.experiments.RecordOutcome(requestID, out)
}

// ExperimentStats returns assignment and outcome counts for an experiment.
func (r *Router) ExperimentStats(experimentID string) (experiment.Stats, error) {
	return r.experiments.Stats(experimentID)
}

// RecordAssessmentOutcome feeds back the actual outcome of a routed
// request so assessment accuracy can be measured. The tracking id is the
// request id from the routing result.
func (r *Router) RecordAssessmentOutcome(requestID string, out assess.Outcome) {
	r.assessor.RecordOutcome(requestID, out)
}

// AssessmentAccuracy reports how often the recommended tier matched the
// tier that actually served the request.
func (r *Router) AssessmentAccuracy() assess.Metrics {
	return r.assessor.AccuracyMetrics()
}
