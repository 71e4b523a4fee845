package exercises

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ndelvaux/notesmith/internal/schema"
)

// buildBatchPrompt creates the prompt for generating application exercises
// from a batch of formulas. The reply must match exerciseReply.
func buildBatchPrompt(batch []schema.Formula, topics []schema.Topic) string {
	type promptFormula struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Formula string `json:"formula"`
		Topic   string `json:"topic,omitempty"`
	}

	byID := make(map[string]string, len(topics))
	for _, t := range topics {
		byID[t.ID] = t.Title
	}

	pf := make([]promptFormula, 0, len(batch))
	for _, f := range batch {
		pf = append(pf, promptFormula{ID: f.ID, Name: f.Name, Formula: f.Latex, Topic: byID[f.TopicID]})
	}
	formulasJSON, _ := json.MarshalIndent(pf, "", "  ")

	return fmt.Sprintf(`Create one practice exercise for each of the following formulas.

Formulas:
%s

Each exercise should require actually applying the formula, not just
restating it. Provide a worked solution and one or two hints.

Respond with ONLY a JSON object, no other text:
{
  "exercises": [
    {
      "question": "Exercise question",
      "type": "simple_application|comprehensive|derivation|conceptual",
      "formula_ids": ["formula id"],
      "solution": "Worked solution",
      "difficulty": 2,
      "hints": ["hint"]
    }
  ]
}`, formulasJSON)
}

// buildConceptualPrompt creates the prompt for one conceptual exercise on a
// topic.
func buildConceptualPrompt(topic schema.Topic) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Create one conceptual-understanding exercise for the topic %q.\n\n", topic.Title)
	if len(topic.Keywords) > 0 {
		fmt.Fprintf(&sb, "Key terms: %s\n\n", strings.Join(topic.Keywords, ", "))
	}
	if topic.Content != "" {
		fmt.Fprintf(&sb, "Topic content:\n%s\n\n", topic.Content)
	}
	sb.WriteString(`The exercise should test understanding rather than computation.

Respond with ONLY a JSON object, no other text:
{
  "exercises": [
    {
      "question": "Exercise question",
      "type": "conceptual",
      "solution": "Model answer",
      "difficulty": 2,
      "hints": ["hint"]
    }
  ]
}`)
	return sb.String()
}
