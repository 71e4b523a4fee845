// Package exercises generates practice questions from enriched formulas and
// topics. Every generation path degrades to deterministic template exercises
// when the enrichment service fails, so a bad call never empties the output.
package exercises

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ndelvaux/notesmith/internal/schema"
)

// Completer is the slice of the enrichment client this package needs.
type Completer interface {
	Complete(ctx context.Context, system, prompt string, maxTokens int) (string, error)
}

const exerciseSystemPrompt = "You are an experienced teacher creating practice exercises for students studying from these notes."

// BatchSize bounds how many formulas go into one exercise-generation call.
const BatchSize = 3

// Generator produces exercises via the enrichment service with template
// fallbacks.
type Generator struct {
	llm Completer
	log *slog.Logger
}

func NewGenerator(llm Completer, log *slog.Logger) *Generator {
	return &Generator{llm: llm, log: log}
}

type exerciseReply struct {
	Exercises []struct {
		Question   string   `json:"question"`
		Type       string   `json:"type"`
		FormulaIDs []string `json:"formula_ids"`
		Solution   string   `json:"solution"`
		Difficulty int      `json:"difficulty"`
		Hints      []string `json:"hints"`
	} `json:"exercises"`
}

// FormulaExercises generates application exercises for each formula, in
// batches. A failed batch produces one template exercise per formula.
func (g *Generator) FormulaExercises(ctx context.Context, formulas []schema.Formula, topics []schema.Topic) []schema.Exercise {
	var out []schema.Exercise

	for start := 0; start < len(formulas); start += BatchSize {
		end := start + BatchSize
		if end > len(formulas) {
			end = len(formulas)
		}
		batch := formulas[start:end]

		generated, err := g.generateBatch(ctx, batch, topics)
		if err != nil {
			g.log.Warn("exercise generation failed, using templates", "batch_start", start, "error", err)
			for _, f := range batch {
				out = append(out, fallbackExercise(f, len(out)+1))
			}
			continue
		}
		out = append(out, generated...)
	}
	return out
}

func (g *Generator) generateBatch(ctx context.Context, batch []schema.Formula, topics []schema.Topic) ([]schema.Exercise, error) {
	reply, err := g.llm.Complete(ctx, exerciseSystemPrompt, buildBatchPrompt(batch, topics), 1536)
	if err != nil {
		return nil, err
	}

	var parsed exerciseReply
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		return nil, fmt.Errorf("exercise reply did not match schema: %w", err)
	}

	var out []schema.Exercise
	for i, e := range parsed.Exercises {
		ex := schema.Exercise{
			ID:         fmt.Sprintf("exercise-%s-%d", batch[0].ID, i+1),
			Question:   strings.TrimSpace(e.Question),
			Type:       exerciseType(e.Type),
			FormulaIDs: e.FormulaIDs,
			Solution:   e.Solution,
			Difficulty: clampDifficulty(e.Difficulty),
			Hints:      e.Hints,
		}
		if len(ex.FormulaIDs) == 0 && i < len(batch) {
			ex.FormulaIDs = []string{batch[i].ID}
		}
		if Valid(ex) {
			out = append(out, ex)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no valid exercises in reply")
	}
	return out, nil
}

// Comprehensive generates up to count exercises combining several formulas.
// Needs at least two formulas; failures produce template exercises over the
// selected combinations.
func (g *Generator) Comprehensive(ctx context.Context, formulas []schema.Formula, topics []schema.Topic, count int) []schema.Exercise {
	if len(formulas) < 2 {
		return nil
	}

	var out []schema.Exercise
	for n := range count {
		set := pickCombination(formulas, n)
		generated, err := g.generateBatch(ctx, set, topics)
		if err != nil {
			g.log.Warn("comprehensive exercise generation failed, using template", "index", n, "error", err)
			out = append(out, comprehensiveFallback(set, n+1))
			continue
		}
		for i := range generated {
			generated[i].Type = schema.ExerciseComprehensive
			generated[i].ID = fmt.Sprintf("comprehensive-%d-%d", n+1, i+1)
		}
		out = append(out, generated...)
	}
	return out
}

// Conceptual generates understanding exercises for the first topics (max 3).
// Failures produce template questions from the topic keywords.
func (g *Generator) Conceptual(ctx context.Context, topics []schema.Topic) []schema.Exercise {
	limit := 3
	if len(topics) < limit {
		limit = len(topics)
	}

	var out []schema.Exercise
	for i := 0; i < limit; i++ {
		topic := topics[i]
		ex, err := g.generateConceptual(ctx, topic)
		if err != nil {
			g.log.Warn("conceptual exercise generation failed, using template", "topic", topic.ID, "error", err)
			ex = conceptualFallback(topic)
		}
		out = append(out, ex)
	}
	return out
}

func (g *Generator) generateConceptual(ctx context.Context, topic schema.Topic) (schema.Exercise, error) {
	reply, err := g.llm.Complete(ctx, exerciseSystemPrompt, buildConceptualPrompt(topic), 768)
	if err != nil {
		return schema.Exercise{}, err
	}

	var parsed exerciseReply
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		return schema.Exercise{}, fmt.Errorf("exercise reply did not match schema: %w", err)
	}
	if len(parsed.Exercises) == 0 {
		return schema.Exercise{}, fmt.Errorf("no exercise in reply")
	}

	e := parsed.Exercises[0]
	ex := schema.Exercise{
		ID:         "conceptual-" + topic.ID,
		Question:   strings.TrimSpace(e.Question),
		Type:       schema.ExerciseConceptual,
		TopicIDs:   []string{topic.ID},
		Solution:   e.Solution,
		Difficulty: clampDifficulty(e.Difficulty),
		Hints:      e.Hints,
	}
	if !Valid(ex) {
		return schema.Exercise{}, fmt.Errorf("invalid exercise in reply")
	}
	return ex, nil
}

// Valid applies basic sanity checks to a generated exercise.
func Valid(ex schema.Exercise) bool {
	q := strings.TrimSpace(ex.Question)
	if len(q) < 10 {
		return false
	}
	return ex.Difficulty >= 1 && ex.Difficulty <= 5
}

// pickCombination selects a spread of formulas for one comprehensive
// exercise: a rotating window of up to three.
func pickCombination(formulas []schema.Formula, n int) []schema.Formula {
	size := 3
	if len(formulas) < size {
		size = len(formulas)
	}
	set := make([]schema.Formula, 0, size)
	for i := 0; i < size; i++ {
		set = append(set, formulas[(n+i)%len(formulas)])
	}
	return set
}

func fallbackExercise(f schema.Formula, ordinal int) schema.Exercise {
	return schema.Exercise{
		ID:         fmt.Sprintf("exercise-fallback-%d", ordinal),
		Question:   fmt.Sprintf("Apply the formula %s (%s) to a concrete problem of your choosing and interpret the result.", f.Name, f.Latex),
		Type:       schema.ExerciseSimpleApplication,
		FormulaIDs: []string{f.ID},
		Difficulty: 2,
		Hints:      []string{"Start by identifying each variable in " + f.Latex + "."},
	}
}

func comprehensiveFallback(set []schema.Formula, ordinal int) schema.Exercise {
	names := make([]string, 0, len(set))
	ids := make([]string, 0, len(set))
	for _, f := range set {
		names = append(names, f.Name)
		ids = append(ids, f.ID)
	}
	return schema.Exercise{
		ID:         fmt.Sprintf("comprehensive-fallback-%d", ordinal),
		Question:   fmt.Sprintf("Construct a problem that requires combining %s, and solve it step by step.", strings.Join(names, ", ")),
		Type:       schema.ExerciseComprehensive,
		FormulaIDs: ids,
		Difficulty: 4,
		Hints:      []string{"Work out what each formula contributes before combining them."},
	}
}

func conceptualFallback(topic schema.Topic) schema.Exercise {
	question := fmt.Sprintf("Explain the key ideas of %q in your own words.", topic.Title)
	if len(topic.Keywords) > 0 {
		question += fmt.Sprintf(" Your answer should cover: %s.", strings.Join(topic.Keywords, ", "))
	}
	return schema.Exercise{
		ID:         "conceptual-" + topic.ID,
		Question:   question,
		Type:       schema.ExerciseConceptual,
		TopicIDs:   []string{topic.ID},
		Difficulty: 2,
	}
}

func exerciseType(s string) schema.ExerciseType {
	switch s {
	case "comprehensive":
		return schema.ExerciseComprehensive
	case "derivation":
		return schema.ExerciseDerivation
	case "conceptual":
		return schema.ExerciseConceptual
	default:
		return schema.ExerciseSimpleApplication
	}
}

func clampDifficulty(d int) int {
	if d < 1 {
		return 1
	}
	if d > 5 {
		return 5
	}
	return d
}
