// Package experiment stores A/B experiment definitions and sticky
// per-client variant assignments.
//
// An experiment has two variants, control and treatment, each a partial
// routing override (tier and/or provider). The first time a client is
// routed under an experiment, it is assigned a variant uniformly at random;
// the assignment then never changes for the life of the process.
//
// Experiments are keyed globally by id: re-enrolling an id redefines its
// variants for every client already assigned to it. Assignments themselves
// are unaffected by re-enrollment.
package experiment

import (
	"errors"
	"math/rand"
	"sync"

	"github.com/routekit/routekit/catalog"
)

// Variant names.
const (
	VariantControl   = "control"
	VariantTreatment = "treatment"
)

// ErrUnknownExperiment indicates the experiment id has not been enrolled.
var ErrUnknownExperiment = errors.New("unknown experiment")

// Variant is a partial routing override. Zero-valued fields leave the
// routed value unchanged.
type Variant struct {
	// Tier overrides the routed tier when not TierUnknown.
	Tier catalog.Tier `json:"tier,omitempty"`

	// Provider overrides the routed provider when non-empty.
	Provider catalog.Provider `json:"provider,omitempty"`
}

// Config defines an experiment's two variants.
type Config struct {
	Control   Variant `json:"control"`
	Treatment Variant `json:"treatment"`
}

// Outcome records how a request routed under an experiment went.
type Outcome struct {
	ExperimentID string  `json:"experiment_id"`
	VariantName  string  `json:"variant"`
	Success      bool    `json:"success"`
	QualityScore float64 `json:"quality_score,omitempty"`
}

// Stats summarizes an experiment's enrollment and recorded outcomes.
type Stats struct {
	// Assigned counts clients with a sticky assignment, per variant name.
	Assigned map[string]int `json:"assigned"`

	// Outcomes counts recorded outcomes, per variant name.
	Outcomes map[string]int `json:"outcomes"`

	// Successes counts successful outcomes, per variant name.
	Successes map[string]int `json:"successes"`
}

// assignKey identifies one sticky assignment.
type assignKey struct {
	clientID     string
	experimentID string
}

// Registry holds experiment definitions, assignments, and outcomes.
// All methods are safe for concurrent use; variant assignment is an atomic
// check-or-assign, so concurrent first-time callers for the same client
// observe a single consistent variant.
type Registry struct {
	mu          sync.Mutex
	experiments map[string]Config
	assignments map[assignKey]string
	outcomes    map[string]Outcome // request id -> outcome
	coin        func() bool        // true = treatment
}

// Option configures a Registry.
type Option func(*Registry)

// WithCoin overrides the variant coin flip. Useful in tests.
func WithCoin(coin func() bool) Option {
	return func(r *Registry) { r.coin = coin }
}

// NewRegistry creates an empty experiment registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		experiments: make(map[string]Config),
		assignments: make(map[assignKey]string),
		outcomes:    make(map[string]Outcome),
		coin:        func() bool { return rand.Intn(2) == 1 },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enroll stores or overwrites the variant definitions for an experiment id.
// Existing sticky assignments are preserved.
func (r *Registry) Enroll(experimentID string, cfg Config) {
	r.mu.Lock()
	r.experiments[experimentID] = cfg
	r.mu.Unlock()
}

// Variant returns the client's sticky variant for the experiment, assigning
// one uniformly at random on first reference. The assignment is stable for
// the life of the process.
func (r *Registry) Variant(clientID, experimentID string) (string, Variant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg, ok := r.experiments[experimentID]
	if !ok {
		return "", Variant{}, ErrUnknownExperiment
	}

	k := assignKey{clientID, experimentID}
	name, ok := r.assignments[k]
	if !ok {
		name = VariantControl
		if r.coin() {
			name = VariantTreatment
		}
		r.assignments[k] = name
	}

	if name == VariantTreatment {
		return name, cfg.Treatment, nil
	}
	return name, cfg.Control, nil
}

// RecordOutcome stores an outcome keyed by request id. A second record for
// the same request id overwrites the first.
func (r *Registry) RecordOutcome(requestID string, outcome Outcome) {
	if requestID == "" {
		return
	}
	r.mu.Lock()
	r.outcomes[requestID] = outcome
	r.mu.Unlock()
}

// Stats reports enrollment and outcome counts for an experiment.
func (r *Registry) Stats(experimentID string) (Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.experiments[experimentID]; !ok {
		return Stats{}, ErrUnknownExperiment
	}

	stats := Stats{
		Assigned:  make(map[string]int),
		Outcomes:  make(map[string]int),
		Successes: make(map[string]int),
	}
	for k, name := range r.assignments {
		if k.experimentID == experimentID {
			stats.Assigned[name]++
		}
	}
	for _, outcome := range r.outcomes {
		if outcome.ExperimentID != experimentID {
			continue
		}
		stats.Outcomes[outcome.VariantName]++
		if outcome.Success {
			stats.Successes[outcome.VariantName]++
		}
	}
	return stats, nil
}
