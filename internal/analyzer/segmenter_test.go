package analyzer

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ndelvaux/notesmith/internal/schema"
)

const wavesDoc = `--- Page 1 ---
Chapter 1: Waves

Waves carry energy through a medium. A wave repeats with a fixed period,
and the wave speed relates wavelength to frequency.

--- Page 2 ---
Section 1.1 Frequency

Frequency counts oscillations per second. Higher frequency means higher
pitch for sound, and frequency times wavelength gives speed.
`

func TestSegmentHeadings_ChapterAndSection(t *testing.T) {
	s := NewSegmenter(DefaultSegmenterConfig())
	topics := s.SegmentHeadings(wavesDoc)

	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d: %+v", len(topics), topics)
	}

	waves := topics[0]
	if waves.ID != "topic-1" {
		t.Errorf("expected id topic-1, got %q", waves.ID)
	}
	if waves.Title != "Waves" {
		t.Errorf("expected title %q, got %q", "Waves", waves.Title)
	}
	if waves.Type != schema.TopicChapter || waves.Level != 1 {
		t.Errorf("expected chapter level 1, got %s level %d", waves.Type, waves.Level)
	}
	if waves.PageRange.Start != 1 {
		t.Errorf("expected page 1, got %d", waves.PageRange.Start)
	}
	if waves.ParentID != "" {
		t.Errorf("expected no parent for chapter, got %q", waves.ParentID)
	}

	freq := topics[1]
	if freq.Title != "Frequency" {
		t.Errorf("expected title %q, got %q", "Frequency", freq.Title)
	}
	if freq.Type != schema.TopicSection || freq.Level != 2 {
		t.Errorf("expected section level 2, got %s level %d", freq.Type, freq.Level)
	}
	if freq.PageRange.Start != 2 {
		t.Errorf("expected page 2, got %d", freq.PageRange.Start)
	}
	if freq.ParentID != "topic-1" {
		t.Errorf("expected parent topic-1, got %q", freq.ParentID)
	}
}

func TestSegmentHeadings_Idempotent(t *testing.T) {
	s := NewSegmenter(DefaultSegmenterConfig())
	first := s.SegmentHeadings(wavesDoc)
	second := s.SegmentHeadings(wavesDoc)
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical output on repeated segmentation")
	}
}

func TestSegmentHeadings_ParentHasLowerLevel(t *testing.T) {
	doc := `Chapter 1: Mechanics
Intro.
1.1 Kinematics
Motion.
1.2 Dynamics
Forces.
Chapter 2: Thermodynamics
Heat.
2.1 Entropy
Disorder.
`
	s := NewSegmenter(DefaultSegmenterConfig())
	topics := s.SegmentHeadings(doc)

	byID := make(map[string]schema.Topic, len(topics))
	for _, tp := range topics {
		byID[tp.ID] = tp
	}
	for _, tp := range topics {
		if tp.ParentID == "" {
			continue
		}
		parent, ok := byID[tp.ParentID]
		if !ok {
			t.Fatalf("topic %q has unknown parent %q", tp.ID, tp.ParentID)
		}
		if parent.Level >= tp.Level {
			t.Errorf("topic %q (level %d) has parent %q with level %d", tp.ID, tp.Level, parent.ID, parent.Level)
		}
	}

	// Entropy should hang off Thermodynamics, not Mechanics.
	var entropy schema.Topic
	for _, tp := range topics {
		if tp.Title == "Entropy" {
			entropy = tp
		}
	}
	if byID[entropy.ParentID].Title != "Thermodynamics" {
		t.Errorf("expected Entropy under Thermodynamics, got parent %q", byID[entropy.ParentID].Title)
	}
}

func TestSegmentHeadings_FirstMatchWins(t *testing.T) {
	// "1.2 Dotted" matches both the N.M rule and the N. rule; the N.M rule
	// comes first so the topic is a level-3 subsection.
	s := NewSegmenter(DefaultSegmenterConfig())
	topics := s.SegmentHeadings("1.2 Dotted Numbering\nBody text.\n")
	if len(topics) != 1 {
		t.Fatalf("expected 1 topic, got %d", len(topics))
	}
	if topics[0].Type != schema.TopicSubsection || topics[0].Level != 3 {
		t.Errorf("expected subsection level 3, got %s level %d", topics[0].Type, topics[0].Level)
	}
	if topics[0].Title != "Dotted Numbering" {
		t.Errorf("expected title %q, got %q", "Dotted Numbering", topics[0].Title)
	}
}

func TestSegmentHeadings_MarkdownHeaders(t *testing.T) {
	s := NewSegmenter(DefaultSegmenterConfig())
	topics := s.SegmentHeadings("# Linear Algebra\nVectors and matrices.\n## Eigenvalues\nCharacteristic roots.\n")
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(topics))
	}
	for _, tp := range topics {
		if tp.Level != 2 || tp.Type != schema.TopicSection {
			t.Errorf("markdown heading %q: expected section level 2, got %s level %d", tp.Title, tp.Type, tp.Level)
		}
	}
}

func TestSegmentHeadings_NumericTitleRejected(t *testing.T) {
	s := NewSegmenter(DefaultSegmenterConfig())
	topics := s.SegmentHeadings("# 123\nBody.\n")
	if len(topics) != 0 {
		t.Errorf("expected numeric-only title to be rejected, got %+v", topics)
	}
}

func TestSegmentHeadings_EmptyText(t *testing.T) {
	s := NewSegmenter(DefaultSegmenterConfig())
	if topics := s.SegmentHeadings(""); len(topics) != 0 {
		t.Errorf("expected no topics for empty text, got %d", len(topics))
	}
}

func TestSegmentHeadings_ContentStopsAtNextHeading(t *testing.T) {
	s := NewSegmenter(DefaultSegmenterConfig())
	topics := s.SegmentHeadings("Chapter 1: First\nAlpha line.\nBeta line.\nChapter 2: Second\nGamma line.\n")
	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(topics))
	}
	if strings.Contains(topics[0].Content, "Gamma") {
		t.Errorf("first topic content leaked past next heading: %q", topics[0].Content)
	}
	if !strings.Contains(topics[0].Content, "Alpha line.") || !strings.Contains(topics[0].Content, "Beta line.") {
		t.Errorf("expected both content lines, got %q", topics[0].Content)
	}
}

func TestExtractKeywords_FrequencyAndStopWords(t *testing.T) {
	s := NewSegmenter(DefaultSegmenterConfig())
	content := strings.Repeat("wavelength oscillation ", 3) + "the the the with with unique"
	keywords := s.extractKeywords(content)

	want := []string{"wavelength", "oscillation"}
	if !reflect.DeepEqual(keywords, want) {
		t.Errorf("expected keywords %v, got %v", want, keywords)
	}
}

func TestExtractKeywords_ShortWordsSkipped(t *testing.T) {
	s := NewSegmenter(DefaultSegmenterConfig())
	// "sin" and "cos" are 3 letters: below the length cutoff even repeated.
	keywords := s.extractKeywords("sin cos sin cos tangent tangent")
	want := []string{"tangent"}
	if !reflect.DeepEqual(keywords, want) {
		t.Errorf("expected %v, got %v", want, keywords)
	}
}
