package analyzer

import (
	"reflect"
	"testing"

	"github.com/ndelvaux/notesmith/internal/schema"
)

func TestMergeTopics_SimilarTitleContributesKeywords(t *testing.T) {
	structural := []schema.Topic{
		{ID: "topic-1", Title: "Wave Mechanics", Keywords: []string{"amplitude"}},
	}
	candidates := []schema.Topic{
		{ID: "ai-topic-0-1", Title: "wave mechanics", Keywords: []string{"frequency", "amplitude"}},
	}

	merged := MergeTopics(structural, candidates)
	if len(merged) != 1 {
		t.Fatalf("expected 1 merged topic, got %d", len(merged))
	}
	want := []string{"amplitude", "frequency"}
	if !reflect.DeepEqual(merged[0].Keywords, want) {
		t.Errorf("expected keywords %v, got %v", want, merged[0].Keywords)
	}
	// Structural identity wins over the candidate's.
	if merged[0].ID != "topic-1" {
		t.Errorf("expected structural id kept, got %q", merged[0].ID)
	}
}

func TestMergeTopics_DistinctTitleAppended(t *testing.T) {
	structural := []schema.Topic{
		{ID: "topic-1", Title: "Thermodynamics"},
	}
	candidates := []schema.Topic{
		{ID: "ai-topic-0-1", Title: "Quantum Entanglement"},
	}

	merged := MergeTopics(structural, candidates)
	if len(merged) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(merged))
	}
	if merged[1].Title != "Quantum Entanglement" {
		t.Errorf("expected appended candidate, got %q", merged[1].Title)
	}
}

func TestMergeTopics_ShortTitleDropped(t *testing.T) {
	merged := MergeTopics(nil, []schema.Topic{{ID: "ai-topic-0-1", Title: "Ion"}})
	if len(merged) != 0 {
		t.Errorf("expected short-title candidate dropped, got %+v", merged)
	}
}

func TestMergeTopics_EmptyStructural(t *testing.T) {
	candidates := []schema.Topic{
		{ID: "ai-topic-0-1", Title: "Linear Algebra"},
		{ID: "ai-topic-0-2", Title: "Calculus"},
	}
	merged := MergeTopics(nil, candidates)
	if len(merged) != 2 {
		t.Fatalf("expected all candidates kept, got %d", len(merged))
	}
}

func TestMergeTopics_DoesNotMutateStructural(t *testing.T) {
	structural := []schema.Topic{{ID: "topic-1", Title: "Optics", Keywords: []string{"lens"}}}
	MergeTopics(structural, []schema.Topic{{Title: "optics", Keywords: []string{"mirror"}}})
	if len(structural[0].Keywords) != 1 {
		t.Errorf("structural slice mutated: %v", structural[0].Keywords)
	}
}

func TestTitleSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"Wave Mechanics", "wave mechanics", 1.0},
		{"Wave Mechanics", "Wave Optics", 1.0 / 3.0},
		{"Alpha", "Beta", 0},
		{"", "Anything", 0},
	}
	for _, tt := range tests {
		got := TitleSimilarity(tt.a, tt.b)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("TitleSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestAttachFormulas_UnknownTopicFallsBack(t *testing.T) {
	topics := []schema.Topic{
		{ID: "topic-1", Title: "Mechanics"},
		{ID: "topic-2", Title: "Optics"},
	}
	formulas := []schema.Formula{
		{ID: "formula-1", TopicID: "topic-2"},
		{ID: "formula-2", TopicID: "no-such-topic"},
		{ID: "formula-3"},
	}

	AttachFormulas(formulas, topics)
	if formulas[0].TopicID != "topic-2" {
		t.Errorf("known topic id overwritten: %q", formulas[0].TopicID)
	}
	if formulas[1].TopicID != "topic-1" {
		t.Errorf("expected fallback to first topic, got %q", formulas[1].TopicID)
	}
	if formulas[2].TopicID != "topic-1" {
		t.Errorf("expected empty association to fall back, got %q", formulas[2].TopicID)
	}
}

func TestAttachFormulas_NoTopics(t *testing.T) {
	formulas := []schema.Formula{{ID: "formula-1", TopicID: "orphan"}}
	AttachFormulas(formulas, nil)
	if formulas[0].TopicID != "orphan" {
		t.Errorf("expected association untouched with no topics, got %q", formulas[0].TopicID)
	}
}
