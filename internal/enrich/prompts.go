package enrich

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ndelvaux/notesmith/internal/schema"
)

const topicSystemPrompt = "You are an expert at analyzing academic documents and identifying key topics and concepts."

const formulaSystemPrompt = "You are an expert mathematician and educator analyzing mathematical formulas."

// BuildTopicPrompt creates the topic-analysis prompt for one text chunk.
// The reply must be a JSON object matching topicAnalysisReply.
func BuildTopicPrompt(chunk string, existing []schema.Topic) string {
	titles := make([]string, 0, len(existing))
	for _, t := range existing {
		titles = append(titles, t.Title)
	}

	var sb strings.Builder
	sb.WriteString("Analyze the following academic text and identify the main topics, concepts, and themes.\n\n")
	sb.WriteString("Text to analyze:\n")
	sb.WriteString(chunk)
	sb.WriteString("\n\nTopics already found by structural analysis: ")
	sb.WriteString(strings.Join(titles, "; "))
	sb.WriteString(`

Identify main topics, subtopics, and key concepts not already covered.
Focus on academic and technical content; avoid generic topics.

Respond with ONLY a JSON object, no other text:
{
  "topics": [
    {
      "title": "Topic title",
      "type": "chapter|section|subsection|concept",
      "level": 1,
      "keywords": ["keyword1", "keyword2"],
      "description": "Brief description"
    }
  ]
}`)
	return sb.String()
}

// BuildFormulaPrompt creates the formula-enrichment prompt for one batch of
// candidates. The reply must be a JSON object matching formulaBatchReply.
func BuildFormulaPrompt(batch []schema.FormulaCandidate, topics []schema.Topic) string {
	type promptFormula struct {
		ID      string `json:"id"`
		Formula string `json:"formula"`
		Context string `json:"context"`
	}
	type promptTopic struct {
		ID       string   `json:"id"`
		Title    string   `json:"title"`
		Keywords []string `json:"keywords"`
	}

	pf := make([]promptFormula, 0, len(batch))
	for _, c := range batch {
		pf = append(pf, promptFormula{ID: c.ID, Formula: c.Latex, Context: truncate(c.Context, 200)})
	}
	pt := make([]promptTopic, 0, len(topics))
	for _, t := range topics {
		pt = append(pt, promptTopic{ID: t.ID, Title: t.Title, Keywords: t.Keywords})
	}

	formulasJSON, _ := json.MarshalIndent(pf, "", "  ")
	topicsJSON, _ := json.MarshalIndent(pt, "", "  ")

	return fmt.Sprintf(`Analyze the following mathematical formulas and provide detailed information for each.

Formulas to analyze:
%s

Available topics:
%s

For each formula provide a descriptive name, its type (equation, theorem,
definition, property), the topic it belongs to (use the topic id), a brief
explanation of what it represents, and potential applications.

Respond with ONLY a JSON object, no other text:
{
  "formulas": [
    {
      "id": "formula id from the input",
      "name": "Descriptive name",
      "type": "equation|theorem|definition|property",
      "topic_id": "topic id",
      "explanation": "What this formula represents",
      "applications": ["application1", "application2"]
    }
  ]
}`, formulasJSON, topicsJSON)
}
