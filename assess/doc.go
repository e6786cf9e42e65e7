// Package assess scores task complexity along five factors and recommends
// a model tier.
//
// An assessment combines a per-task-type baseline vector with signals from
// the request itself: context token count, reasoning and creativity keyword
// density in the instructions, and instruction length. The overall score is
// a weighted sum of the five factors; weights and tier thresholds are
// configurable per assessor instance.
//
//	a := assess.New()
//	score := a.Assess(assess.Request{
//	    TaskType:      assess.TaskAnalysis,
//	    ContextTokens: 30000,
//	    Instructions:  "Analyze the failure modes and explain why each occurs",
//	})
//	// score.RecommendedTier, score.Overall, score.Confidence
//
// Assessment never fails: unrecognized task types fall back to a neutral
// baseline. Pass a TrackingID to record assessments for later accuracy
// measurement via RecordOutcome and AccuracyMetrics.
package assess
