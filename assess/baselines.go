package assess

// TaskType categorizes the work a request asks a model to do.
type TaskType string

// Known task types. Any other value is assessed against a neutral baseline
// rather than failing; see Baseline.
const (
	TaskCodeGeneration  TaskType = "code_generation"
	TaskCodeReview      TaskType = "code_review"
	TaskSummarization   TaskType = "summarization"
	TaskCreativeWriting TaskType = "creative_writing"
	TaskDataExtraction  TaskType = "data_extraction"
	TaskTranslation     TaskType = "translation"
	TaskChat            TaskType = "chat"
	TaskAnalysis        TaskType = "analysis"
	TaskClassification  TaskType = "classification"
)

// Known reports whether t is one of the defined task types.
func (t TaskType) Known() bool {
	_, ok := baselines[t]
	return ok
}

// Baseline returns the five-factor baseline vector for the task type.
// Unrecognized task types get an all-0.5 neutral vector.
func (t TaskType) Baseline() Factors {
	if b, ok := baselines[t]; ok {
		return b
	}
	return neutralBaseline
}

// neutralBaseline is used for task types outside the known set.
var neutralBaseline = Factors{
	ContextSize:       0.5,
	ReasoningDepth:    0.5,
	CreativeDemand:    0.5,
	PrecisionNeed:     0.5,
	DomainSpecificity: 0.5,
}

// baselines maps each known task type to its factor baseline.
var baselines = map[TaskType]Factors{
	TaskCodeGeneration:  {ContextSize: 0.5, ReasoningDepth: 0.7, CreativeDemand: 0.4, PrecisionNeed: 0.8, DomainSpecificity: 0.6},
	TaskCodeReview:      {ContextSize: 0.6, ReasoningDepth: 0.7, CreativeDemand: 0.2, PrecisionNeed: 0.8, DomainSpecificity: 0.6},
	TaskSummarization:   {ContextSize: 0.6, ReasoningDepth: 0.4, CreativeDemand: 0.3, PrecisionNeed: 0.5, DomainSpecificity: 0.3},
	TaskCreativeWriting: {ContextSize: 0.3, ReasoningDepth: 0.4, CreativeDemand: 0.9, PrecisionNeed: 0.3, DomainSpecificity: 0.2},
	TaskDataExtraction:  {ContextSize: 0.5, ReasoningDepth: 0.3, CreativeDemand: 0.1, PrecisionNeed: 0.9, DomainSpecificity: 0.4},
	TaskTranslation:     {ContextSize: 0.4, ReasoningDepth: 0.3, CreativeDemand: 0.4, PrecisionNeed: 0.7, DomainSpecificity: 0.5},
	TaskChat:            {ContextSize: 0.3, ReasoningDepth: 0.3, CreativeDemand: 0.4, PrecisionNeed: 0.3, DomainSpecificity: 0.2},
	TaskAnalysis:        {ContextSize: 0.6, ReasoningDepth: 0.8, CreativeDemand: 0.3, PrecisionNeed: 0.7, DomainSpecificity: 0.6},
	TaskClassification:  {ContextSize: 0.3, ReasoningDepth: 0.3, CreativeDemand: 0.1, PrecisionNeed: 0.7, DomainSpecificity: 0.4},
}

// reasoningKeywords raise the reasoning-depth factor when they appear in
// the instructions.
var reasoningKeywords = []string{
	"analyze", "reason", "explain why", "step by step", "step-by-step",
	"prove", "derive", "deduce", "trade-off", "tradeoff", "debug",
	"root cause", "architect", "optimize", "compare",
}

// creativityKeywords raise the creative-demand factor when they appear in
// the instructions.
var creativityKeywords = []string{
	"creative", "story", "imagine", "brainstorm", "poem", "invent",
	"metaphor", "original", "playful", "narrative", "fiction",
}
