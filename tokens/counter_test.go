package tokens

import "testing"

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"short", "Hello, world!", 3},
		{"exact multiple", "abcdefgh", 2},
		{"rounds up", "abcdefghij", 3}, // 10/4 = 2.5
		{"multibyte runes", "héllo wörld", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Estimator{}).Count(tt.text); got != tt.want {
				t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestCountCustomRatio(t *testing.T) {
	e := Estimator{CharsPerToken: 2}
	if got := e.Count("abcdefgh"); got != 4 {
		t.Errorf("Count() = %d, want 4", got)
	}

	// Non-positive ratio falls back to the default.
	e = Estimator{CharsPerToken: -1}
	if got := e.Count("abcdefgh"); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
}

func TestFitsWindow(t *testing.T) {
	e := Estimator{}
	text := "abcdefghij" // ~3 tokens

	if !e.FitsWindow(text, 3) {
		t.Error("text should fit a 3-token window")
	}
	if e.FitsWindow(text, 2) {
		t.Error("text should not fit a 2-token window")
	}
	if !e.FitsWindow(text, 0) {
		t.Error("non-positive window means unlimited")
	}
}

func TestEstimate(t *testing.T) {
	if Estimate("Hello, world!") != (Estimator{}).Count("Hello, world!") {
		t.Error("Estimate should match the default estimator")
	}
}
