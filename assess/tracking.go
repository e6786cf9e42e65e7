package assess

import "github.com/routekit/routekit/catalog"

// Outcome records how a routed task actually went, for measuring how often
// the assessor's tier recommendation was right.
type Outcome struct {
	// ActualTier is the tier that ended up serving the task.
	ActualTier catalog.Tier `json:"actual_tier"`

	// Success reports whether the task completed acceptably.
	Success bool `json:"success"`

	// QualityScore is an optional caller-supplied quality rating in [0, 1].
	QualityScore float64 `json:"quality_score,omitempty"`
}

// Metrics summarizes assessment accuracy over tracked outcomes.
type Metrics struct {
	// Total counts tracking ids with both an assessment and an outcome.
	Total int `json:"total"`

	// Correct counts those where the recommended tier matched the actual tier.
	Correct int `json:"correct"`

	// Accuracy is Correct/Total, or 0 when Total is 0.
	Accuracy float64 `json:"accuracy"`
}

// RecordOutcome stores the outcome for a previously assessed tracking id.
// Outcomes for unknown tracking ids are kept and counted once the matching
// assessment arrives.
func (a *Assessor) RecordOutcome(trackingID string, outcome Outcome) {
	if trackingID == "" {
		return
	}
	a.mu.Lock()
	a.outcomes[trackingID] = outcome
	a.mu.Unlock()
}

// AccuracyMetrics reports recommendation accuracy over tracking ids that
// have both a prior assessment and a recorded outcome.
func (a *Assessor) AccuracyMetrics() Metrics {
	a.mu.Lock()
	defer a.mu.Unlock()

	var m Metrics
	for id, outcome := range a.outcomes {
		recommended, ok := a.assessments[id]
		if !ok {
			continue
		}
		m.Total++
		if recommended == outcome.ActualTier {
			m.Correct++
		}
	}
	if m.Total > 0 {
		m.Accuracy = float64(m.Correct) / float64(m.Total)
	}
	return m
}
