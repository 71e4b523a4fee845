package enrich

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ndelvaux/notesmith/internal/schema"
)

func TestFallbackFormula_KeepsCandidateContent(t *testing.T) {
	cand := schema.FormulaCandidate{
		ID:      "formula-3",
		Latex:   "E = mc^2",
		Context: "mass-energy equivalence",
	}
	f := FallbackFormula(cand, 7)

	if f.ID != "formula-3" {
		t.Errorf("expected candidate id kept, got %q", f.ID)
	}
	if f.Latex != "E = mc^2" {
		t.Errorf("expected latex kept, got %q", f.Latex)
	}
	if f.Context != "mass-energy equivalence" {
		t.Errorf("expected context kept, got %q", f.Context)
	}
	if f.Name != "Formula 7" {
		t.Errorf("expected generic name, got %q", f.Name)
	}
	if f.Type != schema.FormulaEquation {
		t.Errorf("expected equation type, got %s", f.Type)
	}
}

func TestStripCodeBlock(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{"plain text", "plain text"},
	}
	for _, tt := range tests {
		if got := stripCodeBlock(tt.in); got != tt.want {
			t.Errorf("stripCodeBlock(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(&RetryableError{StatusCode: 429}) {
		t.Error("expected 429 to be retryable")
	}
	if !IsRetryable(fmt.Errorf("call failed: %w", &RetryableError{StatusCode: 503})) {
		t.Error("expected wrapped retryable error to be detected")
	}
	if IsRetryable(errors.New("bad request")) {
		t.Error("expected plain error to be non-retryable")
	}
}

func TestBackoff_GrowsAndCaps(t *testing.T) {
	for attempt := 0; attempt < 8; attempt++ {
		d := Backoff(attempt)
		if d < time.Second {
			t.Errorf("attempt %d: backoff %v below base", attempt, d)
		}
		if d > 45*time.Second {
			t.Errorf("attempt %d: backoff %v above cap plus jitter", attempt, d)
		}
	}
	if Backoff(1) < 2*time.Second {
		t.Error("expected second attempt to back off at least 2s")
	}
}
