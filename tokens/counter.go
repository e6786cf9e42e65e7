package tokens

import "unicode/utf8"

// DefaultCharsPerToken is the default character-to-token ratio.
// Approximately 4 characters equals 1 token for English text.
const DefaultCharsPerToken = 4.0

// Estimator approximates token counts from text length. It exists so
// routing decisions can be made without a model-specific tokenizer; actual
// counts come back from the backend after execution.
type Estimator struct {
	// CharsPerToken is the average characters per token.
	// Values <= 0 fall back to DefaultCharsPerToken.
	CharsPerToken float64
}

// Count estimates the number of tokens in the given text.
func (e Estimator) Count(text string) int {
	ratio := e.CharsPerToken
	if ratio <= 0 {
		ratio = DefaultCharsPerToken
	}
	// Runes, not bytes: multi-byte text is not multiple tokens per char.
	return int(float64(utf8.RuneCountInString(text))/ratio + 0.5)
}

// FitsWindow reports whether the text fits a context window of the given
// token size. A non-positive window means unlimited.
func (e Estimator) FitsWindow(text string, window int) bool {
	if window <= 0 {
		return true
	}
	return e.Count(text) <= window
}

// Estimate is a convenience function using the default ratio.
func Estimate(text string) int {
	return Estimator{}.Count(text)
}
