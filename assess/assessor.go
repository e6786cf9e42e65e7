package assess

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/routekit/routekit/catalog"
)

// Saturation and boost constants for the factor computations.
const (
	// contextSaturationTokens is the token count at which the context-size
	// factor saturates at 1.
	contextSaturationTokens = 50_000

	// keywordBoostStep is the per-hit boost for reasoning/creativity
	// keywords; maxKeywordHits caps the counted hits, so the total boost
	// never exceeds 0.3.
	keywordBoostStep = 0.05
	maxKeywordHits   = 6

	// precisionBoostStep scales the instruction-length precision boost;
	// the length signal is capped at maxPrecisionUnits units of 500 chars.
	precisionBoostStep = 0.1
	maxPrecisionUnits  = 2.0
)

// Default tier thresholds on the overall score.
const (
	DefaultPremiumThreshold  = 0.7
	DefaultStandardThreshold = 0.4
)

// Factors holds the five independent complexity dimensions, each in [0, 1].
type Factors struct {
	ContextSize       float64 `json:"context_size"`
	ReasoningDepth    float64 `json:"reasoning_depth"`
	CreativeDemand    float64 `json:"creative_demand"`
	PrecisionNeed     float64 `json:"precision_need"`
	DomainSpecificity float64 `json:"domain_specificity"`
}

// values returns the factors as a slice, in declaration order.
func (f Factors) values() []float64 {
	return []float64{f.ContextSize, f.ReasoningDepth, f.CreativeDemand, f.PrecisionNeed, f.DomainSpecificity}
}

// Weights determine each factor's contribution to the overall score.
type Weights struct {
	ContextSize       float64 `json:"context_size"`
	ReasoningDepth    float64 `json:"reasoning_depth"`
	CreativeDemand    float64 `json:"creative_demand"`
	PrecisionNeed     float64 `json:"precision_need"`
	DomainSpecificity float64 `json:"domain_specificity"`
}

// DefaultWeights is the standard factor weighting.
var DefaultWeights = Weights{
	ContextSize:       0.2,
	ReasoningDepth:    0.3,
	CreativeDemand:    0.2,
	PrecisionNeed:     0.2,
	DomainSpecificity: 0.1,
}

// Request describes a task to assess.
type Request struct {
	// TaskType categorizes the work. Unrecognized values are assessed
	// against a neutral baseline.
	TaskType TaskType

	// ContextTokens is the size of the input context.
	ContextTokens int

	// Instructions is the free-text task description.
	Instructions string

	// TrackingID, when set, records the assessment for later accuracy
	// measurement via RecordOutcome.
	TrackingID string
}

// Score is the result of a complexity assessment.
type Score struct {
	// Overall is the weighted factor sum, in [0, 1].
	Overall float64 `json:"overall"`

	// Factors is the five-dimension complexity vector.
	Factors Factors `json:"factors"`

	// Confidence in [0, 1]: high when the factors agree with each other
	// or the overall score is extreme.
	Confidence float64 `json:"confidence"`

	// RecommendedTier is the tier the score maps to.
	RecommendedTier catalog.Tier `json:"recommended_tier"`

	// Reasoning is a human-readable explanation of the assessment.
	Reasoning string `json:"reasoning"`
}

// Assessor computes complexity scores. Assessments share no mutable state
// with each other, so one assessor can serve concurrent callers; outcome
// tracking is internally synchronized.
type Assessor struct {
	weights           Weights
	premiumThreshold  float64
	standardThreshold float64
	baselines         map[TaskType]Factors

	mu          sync.Mutex
	assessments map[string]catalog.Tier // tracking id -> recommended tier
	outcomes    map[string]Outcome      // tracking id -> recorded outcome
}

// Option configures an Assessor.
type Option func(*Assessor)

// WithWeights overrides the factor weights.
func WithWeights(w Weights) Option {
	return func(a *Assessor) { a.weights = w }
}

// WithThresholds overrides the tier thresholds on the overall score.
func WithThresholds(premium, standard float64) Option {
	return func(a *Assessor) {
		a.premiumThreshold = premium
		a.standardThreshold = standard
	}
}

// WithBaseline overrides the baseline vector for one task type.
func WithBaseline(task TaskType, baseline Factors) Option {
	return func(a *Assessor) { a.baselines[task] = baseline }
}

// New creates an assessor with the given options.
func New(opts ...Option) *Assessor {
	a := &Assessor{
		weights:           DefaultWeights,
		premiumThreshold:  DefaultPremiumThreshold,
		standardThreshold: DefaultStandardThreshold,
		baselines:         make(map[TaskType]Factors),
		assessments:       make(map[string]catalog.Tier),
		outcomes:          make(map[string]Outcome),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assess computes the complexity score for a request. It never fails:
// unknown task types degrade to a neutral baseline.
func (a *Assessor) Assess(req Request) Score {
	baseline := a.baselineFor(req.TaskType)
	lower := strings.ToLower(req.Instructions)

	factors := Factors{
		ContextSize:       math.Min(1, float64(req.ContextTokens)/contextSaturationTokens),
		ReasoningDepth:    math.Min(1, baseline.ReasoningDepth+keywordBoost(lower, reasoningKeywords)),
		CreativeDemand:    math.Min(1, baseline.CreativeDemand+keywordBoost(lower, creativityKeywords)),
		PrecisionNeed:     math.Min(1, baseline.PrecisionNeed+lengthBoost(req.Instructions)),
		DomainSpecificity: baseline.DomainSpecificity,
	}

	overall := clamp(a.weights.ContextSize*factors.ContextSize +
		a.weights.ReasoningDepth*factors.ReasoningDepth +
		a.weights.CreativeDemand*factors.CreativeDemand +
		a.weights.PrecisionNeed*factors.PrecisionNeed +
		a.weights.DomainSpecificity*factors.DomainSpecificity)

	confidence := clamp(0.7*(1-variance(factors.values())) + 0.3*(2*math.Abs(overall-0.5)))

	tier := a.scoreToTier(overall)

	score := Score{
		Overall:         overall,
		Factors:         factors,
		Confidence:      confidence,
		RecommendedTier: tier,
		Reasoning:       reasoningText(req.TaskType, factors, overall, tier),
	}

	if req.TrackingID != "" {
		a.mu.Lock()
		a.assessments[req.TrackingID] = tier
		a.mu.Unlock()
	}

	return score
}

// AssessBatch assesses each request independently. Requests do not influence
// each other, so callers may equally well fan the work out themselves.
func (a *Assessor) AssessBatch(reqs []Request) []Score {
	scores := make([]Score, len(reqs))
	for i, req := range reqs {
		scores[i] = a.Assess(req)
	}
	return scores
}

// scoreToTier maps an overall score to a tier. Monotonic in the score.
func (a *Assessor) scoreToTier(overall float64) catalog.Tier {
	switch {
	case overall >= a.premiumThreshold:
		return catalog.TierPremium
	case overall >= a.standardThreshold:
		return catalog.TierStandard
	default:
		return catalog.TierEconomy
	}
}

func (a *Assessor) baselineFor(task TaskType) Factors {
	if b, ok := a.baselines[task]; ok {
		return b
	}
	return task.Baseline()
}

// keywordBoost counts keyword occurrences in the lowercased text and
// converts them to a factor boost, capped at keywordBoostStep*maxKeywordHits.
func keywordBoost(lower string, keywords []string) float64 {
	hits := 0
	for _, kw := range keywords {
		hits += strings.Count(lower, kw)
	}
	return keywordBoostStep * math.Min(maxKeywordHits, float64(hits))
}

// lengthBoost converts instruction length into a precision boost.
func lengthBoost(text string) float64 {
	units := math.Min(maxPrecisionUnits, float64(len(text))/500)
	return precisionBoostStep * units
}

// variance returns the population variance of the values.
func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// reasoningText summarizes an assessment for humans.
func reasoningText(task TaskType, f Factors, overall float64, tier catalog.Tier) string {
	dominant := "context size"
	max := f.ContextSize
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"reasoning depth", f.ReasoningDepth},
		{"creative demand", f.CreativeDemand},
		{"precision need", f.PrecisionNeed},
		{"domain specificity", f.DomainSpecificity},
	} {
		if c.value > max {
			dominant = c.name
			max = c.value
		}
	}

	label := string(task)
	if !task.Known() {
		label = fmt.Sprintf("%s (unrecognized, neutral baseline)", task)
	}
	return fmt.Sprintf("task %s scored %.2f (dominant factor: %s %.2f), recommending %s tier",
		label, overall, dominant, max, tier)
}
