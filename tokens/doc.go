// Package tokens estimates token counts for routing decisions.
//
// Estimation uses the rule-of-thumb that approximately 4 characters equals
// 1 token for English text. This is fast and tokenizer-free, which is all
// a routing decision needs; exact counts arrive with the backend response.
//
//	count := tokens.Estimate("Hello, world!") // ~3 tokens
//
//	e := tokens.Estimator{CharsPerToken: 3.5}
//	e.FitsWindow(prompt, 128_000)
package tokens
