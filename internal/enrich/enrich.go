// Package enrich is the LLM collaborator of the notes pipeline. The analyzer
// produces deterministic candidates; this package elaborates them through a
// strict schema contract: a reply either decodes into the expected shape or
// the call reports failure to its caller. Free-form replies are never scraped.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ndelvaux/notesmith/internal/chunker"
	"github.com/ndelvaux/notesmith/internal/schema"
)

// FormulaBatchSize bounds how many candidates go into one enrichment call.
const FormulaBatchSize = 5

type topicAnalysisReply struct {
	Topics []struct {
		Title       string   `json:"title"`
		Type        string   `json:"type"`
		Level       int      `json:"level"`
		Keywords    []string `json:"keywords"`
		Description string   `json:"description"`
	} `json:"topics"`
}

type formulaBatchReply struct {
	Formulas []struct {
		ID           string   `json:"id"`
		Name         string   `json:"name"`
		Type         string   `json:"type"`
		TopicID      string   `json:"topic_id"`
		Explanation  string   `json:"explanation"`
		Applications []string `json:"applications"`
	} `json:"formulas"`
}

// ProposeTopics runs topic analysis over the document text, chunked to the
// token budget, and returns model-proposed topic candidates for merging.
// A failing chunk is logged and skipped; an error is returned only when every
// chunk failed.
func (c *Client) ProposeTopics(ctx context.Context, text string, structural []schema.Topic, tokenBudget int, log *slog.Logger) ([]schema.Topic, error) {
	chunks := chunker.Split(text, tokenBudget)
	var proposed []schema.Topic
	failed := 0

	for idx, chunk := range chunks {
		reply, err := c.completeWithRetry(ctx, topicSystemPrompt, BuildTopicPrompt(chunk, structural), 1024)
		if err != nil {
			log.Warn("topic analysis failed for chunk", "chunk", idx, "error", err)
			failed++
			continue
		}

		var parsed topicAnalysisReply
		if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
			log.Warn("topic analysis reply did not match schema", "chunk", idx, "error", err)
			failed++
			continue
		}

		for i, t := range parsed.Topics {
			level := t.Level
			if level < 1 || level > 3 {
				level = 2
			}
			proposed = append(proposed, schema.Topic{
				ID:        fmt.Sprintf("ai-topic-%d-%d", idx, i),
				Title:     t.Title,
				Type:      topicType(t.Type),
				Level:     level,
				Content:   t.Description,
				PageRange: schema.PageRange{Start: 1, End: 1},
				Keywords:  t.Keywords,
			})
		}
	}

	if failed == len(chunks) && len(chunks) > 0 {
		return nil, fmt.Errorf("topic analysis failed for all %d chunks", len(chunks))
	}
	return proposed, nil
}

// EnrichFormulas elaborates formula candidates in batches. A failed batch
// degrades to fallback records (raw latex kept, generic name, default topic)
// so a bad batch never aborts the rest. The returned list always covers
// every candidate.
func (c *Client) EnrichFormulas(ctx context.Context, candidates []schema.FormulaCandidate, topics []schema.Topic, log *slog.Logger) []schema.Formula {
	var out []schema.Formula

	for start := 0; start < len(candidates); start += FormulaBatchSize {
		end := start + FormulaBatchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]

		enriched, err := c.enrichFormulaBatch(ctx, batch, topics)
		if err != nil {
			log.Warn("formula enrichment failed, using fallback", "batch_start", start, "error", err)
			for _, cand := range batch {
				out = append(out, FallbackFormula(cand, len(out)+1))
			}
			continue
		}
		out = append(out, enriched...)
	}
	return out
}

func (c *Client) enrichFormulaBatch(ctx context.Context, batch []schema.FormulaCandidate, topics []schema.Topic) ([]schema.Formula, error) {
	reply, err := c.completeWithRetry(ctx, formulaSystemPrompt, BuildFormulaPrompt(batch, topics), 1536)
	if err != nil {
		return nil, err
	}

	var parsed formulaBatchReply
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		return nil, fmt.Errorf("formula reply did not match schema: %w", err)
	}

	byID := make(map[string]schema.FormulaCandidate, len(batch))
	for _, cand := range batch {
		byID[cand.ID] = cand
	}

	covered := make(map[string]bool, len(batch))
	var out []schema.Formula
	for _, f := range parsed.Formulas {
		cand, ok := byID[f.ID]
		if !ok {
			continue
		}
		covered[f.ID] = true
		name := f.Name
		if name == "" {
			name = "Formula " + cand.ID
		}
		out = append(out, schema.Formula{
			ID:           cand.ID,
			Name:         name,
			Latex:        cand.Latex,
			Type:         formulaType(f.Type),
			TopicID:      f.TopicID,
			Explanation:  f.Explanation,
			Applications: f.Applications,
			Context:      cand.Context,
			PageNumber:   1,
		})
	}

	// Candidates the model skipped still get fallback records.
	for _, cand := range batch {
		if !covered[cand.ID] {
			out = append(out, FallbackFormula(cand, len(out)+1))
		}
	}
	return out, nil
}

// FallbackFormula builds the minimal record used when enrichment is
// unavailable: raw latex and context kept, generic name, equation type.
func FallbackFormula(cand schema.FormulaCandidate, ordinal int) schema.Formula {
	return schema.Formula{
		ID:         cand.ID,
		Name:       fmt.Sprintf("Formula %d", ordinal),
		Latex:      cand.Latex,
		Type:       schema.FormulaEquation,
		Context:    cand.Context,
		PageNumber: 1,
	}
}

func topicType(s string) schema.TopicType {
	switch s {
	case "chapter":
		return schema.TopicChapter
	case "section":
		return schema.TopicSection
	case "subsection":
		return schema.TopicSubsection
	default:
		return schema.TopicConcept
	}
}

func formulaType(s string) schema.FormulaType {
	switch s {
	case "theorem":
		return schema.FormulaTheorem
	case "definition":
		return schema.FormulaDefinition
	case "property":
		return schema.FormulaProperty
	default:
		return schema.FormulaEquation
	}
}
