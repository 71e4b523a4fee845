package exercises

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/ndelvaux/notesmith/internal/schema"
)

// stubCompleter returns canned replies, or an error when reply is empty.
type stubCompleter struct {
	reply string
	err   error
	calls int
}

func (s *stubCompleter) Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func sampleFormulas(n int) []schema.Formula {
	formulas := make([]schema.Formula, 0, n)
	latex := []string{"F = ma", "E = mc^2", "PV = nRT", "V = IR", "p = mv"}
	for i := 0; i < n; i++ {
		formulas = append(formulas, schema.Formula{
			ID:      "formula-" + string(rune('1'+i)),
			Name:    "Formula " + string(rune('1'+i)),
			Latex:   latex[i%len(latex)],
			TopicID: "topic-1",
		})
	}
	return formulas
}

func TestFormulaExercises_ValidReply(t *testing.T) {
	stub := &stubCompleter{reply: `{
		"exercises": [
			{"question": "A 3 kg cart accelerates at 2 m/s^2. Find the net force.", "type": "simple_application", "formula_ids": ["formula-1"], "solution": "F = 3 * 2 = 6 N", "difficulty": 2, "hints": ["Multiply mass by acceleration."]}
		]
	}`}
	g := NewGenerator(stub, discardLogger())

	out := g.FormulaExercises(context.Background(), sampleFormulas(1), nil)
	if len(out) != 1 {
		t.Fatalf("expected 1 exercise, got %d", len(out))
	}
	ex := out[0]
	if ex.Type != schema.ExerciseSimpleApplication {
		t.Errorf("unexpected type %s", ex.Type)
	}
	if ex.FormulaIDs[0] != "formula-1" {
		t.Errorf("unexpected formula ids %v", ex.FormulaIDs)
	}
	if ex.Difficulty != 2 {
		t.Errorf("unexpected difficulty %d", ex.Difficulty)
	}
}

func TestFormulaExercises_FallbackOnError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("service unavailable")}
	g := NewGenerator(stub, discardLogger())

	formulas := sampleFormulas(4) // Two batches of 3 and 1.
	out := g.FormulaExercises(context.Background(), formulas, nil)

	if len(out) != 4 {
		t.Fatalf("expected one fallback per formula, got %d", len(out))
	}
	for i, ex := range out {
		if ex.Type != schema.ExerciseSimpleApplication {
			t.Errorf("fallback %d: unexpected type %s", i, ex.Type)
		}
		if len(ex.FormulaIDs) != 1 || ex.FormulaIDs[0] != formulas[i].ID {
			t.Errorf("fallback %d: expected formula id %q, got %v", i, formulas[i].ID, ex.FormulaIDs)
		}
		if !Valid(ex) {
			t.Errorf("fallback %d fails validity check: %+v", i, ex)
		}
	}
	if stub.calls != 2 {
		t.Errorf("expected 2 batch calls, got %d", stub.calls)
	}
}

func TestFormulaExercises_FallbackOnMalformedReply(t *testing.T) {
	stub := &stubCompleter{reply: "Sure! Here are some exercises for you:"}
	g := NewGenerator(stub, discardLogger())

	out := g.FormulaExercises(context.Background(), sampleFormulas(2), nil)
	if len(out) != 2 {
		t.Fatalf("expected fallback exercises, got %d", len(out))
	}
}

func TestFormulaExercises_InvalidExercisesFiltered(t *testing.T) {
	// A too-short question is dropped; an out-of-range difficulty is clamped
	// and kept.
	stub := &stubCompleter{reply: `{
		"exercises": [
			{"question": "Compute the force on the cart using the given data.", "difficulty": 3},
			{"question": "Short", "difficulty": 2},
			{"question": "This question has an out of range difficulty value.", "difficulty": 9}
		]
	}`}
	g := NewGenerator(stub, discardLogger())

	out := g.FormulaExercises(context.Background(), sampleFormulas(3), nil)
	if len(out) != 2 {
		t.Fatalf("expected 2 surviving exercises, got %d: %+v", len(out), out)
	}
	// Difficulty out of range is clamped rather than dropped.
	if out[1].Difficulty != 5 {
		t.Errorf("expected clamped difficulty 5, got %d", out[1].Difficulty)
	}
}

func TestComprehensive_NeedsTwoFormulas(t *testing.T) {
	stub := &stubCompleter{err: errors.New("down")}
	g := NewGenerator(stub, discardLogger())

	if out := g.Comprehensive(context.Background(), sampleFormulas(1), nil, 2); out != nil {
		t.Errorf("expected nil with a single formula, got %+v", out)
	}
	if stub.calls != 0 {
		t.Errorf("expected no calls, got %d", stub.calls)
	}
}

func TestComprehensive_FallbackCombinesFormulas(t *testing.T) {
	stub := &stubCompleter{err: errors.New("down")}
	g := NewGenerator(stub, discardLogger())

	out := g.Comprehensive(context.Background(), sampleFormulas(4), nil, 2)
	if len(out) != 2 {
		t.Fatalf("expected 2 comprehensive exercises, got %d", len(out))
	}
	for _, ex := range out {
		if ex.Type != schema.ExerciseComprehensive {
			t.Errorf("unexpected type %s", ex.Type)
		}
		if len(ex.FormulaIDs) != 3 {
			t.Errorf("expected 3 combined formulas, got %v", ex.FormulaIDs)
		}
	}
	// Rotating windows must differ.
	if out[0].FormulaIDs[0] == out[1].FormulaIDs[0] {
		t.Error("expected different formula combinations per exercise")
	}
}

func TestConceptual_FirstThreeTopics(t *testing.T) {
	stub := &stubCompleter{err: errors.New("down")}
	g := NewGenerator(stub, discardLogger())

	topics := []schema.Topic{
		{ID: "topic-1", Title: "Waves", Keywords: []string{"frequency", "amplitude"}},
		{ID: "topic-2", Title: "Optics"},
		{ID: "topic-3", Title: "Thermodynamics"},
		{ID: "topic-4", Title: "Never Reached"},
	}
	out := g.Conceptual(context.Background(), topics)
	if len(out) != 3 {
		t.Fatalf("expected 3 conceptual exercises, got %d", len(out))
	}
	first := out[0]
	if first.Type != schema.ExerciseConceptual {
		t.Errorf("unexpected type %s", first.Type)
	}
	if first.TopicIDs[0] != "topic-1" {
		t.Errorf("unexpected topic ids %v", first.TopicIDs)
	}
	if !strings.Contains(first.Question, "frequency") {
		t.Errorf("expected keywords in fallback question, got %q", first.Question)
	}
}

func TestConceptual_NoTopics(t *testing.T) {
	g := NewGenerator(&stubCompleter{}, discardLogger())
	if out := g.Conceptual(context.Background(), nil); len(out) != 0 {
		t.Errorf("expected no exercises, got %d", len(out))
	}
}

func TestValid(t *testing.T) {
	ok := schema.Exercise{Question: "Derive the escape velocity formula.", Difficulty: 3}
	if !Valid(ok) {
		t.Error("expected valid exercise to pass")
	}
	if Valid(schema.Exercise{Question: "Too short", Difficulty: 3}) {
		t.Error("expected short question to fail")
	}
	if Valid(schema.Exercise{Question: "A perfectly reasonable question here.", Difficulty: 0}) {
		t.Error("expected difficulty 0 to fail")
	}
}
