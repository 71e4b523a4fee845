// Package notes assembles analysis results into a study-notes document and
// renders it as markdown or HTML.
package notes

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndelvaux/notesmith/internal/schema"
)

// maxSectionExcerpt bounds the content excerpt carried into a note section.
const maxSectionExcerpt = 1200

// Assemble builds the StudyNotes document from the pipeline outputs. Only
// root-level content shaping happens here; topics, formulas and exercises
// arrive fully formed and are not mutated.
func Assemble(id string, doc schema.Document, sourceFilename string, topics []schema.Topic, formulas []schema.Formula, formulaExercises, comprehensive, conceptual []schema.Exercise) schema.StudyNotes {
	formulasByTopic := groupFormulas(formulas)
	exercisesByTopic := groupExercises(formulaExercises, conceptual, formulas)

	var sections []schema.NoteSection
	for i, topic := range topics {
		sections = append(sections, schema.NoteSection{
			ID:        fmt.Sprintf("section-%d", i+1),
			Title:     topic.Title,
			Content:   sectionContent(topic, formulasByTopic[topic.ID]),
			TopicID:   topic.ID,
			Formulas:  formulasByTopic[topic.ID],
			Exercises: exercisesByTopic[topic.ID],
			Order:     i + 1,
		})
	}

	return schema.StudyNotes{
		ID:                     id,
		Title:                  notesTitle(doc, sourceFilename),
		SourceFilename:         sourceFilename,
		Sections:               sections,
		ComprehensiveExercises: comprehensive,
		Summary:                summarize(topics, formulas),
		CreatedAt:              time.Now().UTC(),
	}
}

// sectionContent renders one section body: heading, content excerpt, keyword
// line, then a block per formula.
func sectionContent(topic schema.Topic, formulas []schema.Formula) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n\n", strings.Repeat("#", headingDepth(topic.Level)), topic.Title)

	if excerpt := excerptOf(topic.Content); excerpt != "" {
		sb.WriteString(excerpt)
		sb.WriteString("\n\n")
	}
	if len(topic.Keywords) > 0 {
		fmt.Fprintf(&sb, "**Key terms**: %s\n\n", strings.Join(topic.Keywords, ", "))
	}

	for _, f := range formulas {
		sb.WriteString(formatFormula(f))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatFormula(f schema.Formula) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#### %s\n\n", f.Name)
	fmt.Fprintf(&sb, "$$%s$$\n\n", f.Latex)
	if f.Explanation != "" {
		fmt.Fprintf(&sb, "%s\n\n", f.Explanation)
	}
	if len(f.Applications) > 0 {
		sb.WriteString("**Applications**:\n")
		for _, a := range f.Applications {
			fmt.Fprintf(&sb, "- %s\n", a)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// headingDepth maps topic level to a markdown heading depth, keeping section
// headings under the document h1.
func headingDepth(level int) int {
	depth := level + 1
	if depth < 2 {
		depth = 2
	}
	if depth > 4 {
		depth = 4
	}
	return depth
}

func excerptOf(content string) string {
	content = strings.TrimSpace(content)
	if len(content) <= maxSectionExcerpt {
		return content
	}
	cut := content[:maxSectionExcerpt]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}

func notesTitle(doc schema.Document, sourceFilename string) string {
	if doc.Title != "" {
		return "Study Notes: " + doc.Title
	}
	name := sourceFilename
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return "Study Notes: " + name
}

func summarize(topics []schema.Topic, formulas []schema.Formula) string {
	titles := make([]string, 0, 5)
	for _, t := range topics {
		if t.Level <= 2 {
			titles = append(titles, t.Title)
		}
		if len(titles) == 5 {
			break
		}
	}
	summary := fmt.Sprintf("These notes cover %d topics and %d formulas", len(topics), len(formulas))
	if len(titles) > 0 {
		summary += ", including " + strings.Join(titles, ", ")
	}
	return summary + "."
}

func groupFormulas(formulas []schema.Formula) map[string][]schema.Formula {
	byTopic := make(map[string][]schema.Formula)
	for _, f := range formulas {
		byTopic[f.TopicID] = append(byTopic[f.TopicID], f)
	}
	return byTopic
}

// groupExercises keys exercises by topic: conceptual exercises carry topic
// ids directly, formula exercises resolve through their first formula.
func groupExercises(formulaExercises, conceptual []schema.Exercise, formulas []schema.Formula) map[string][]schema.Exercise {
	topicOfFormula := make(map[string]string, len(formulas))
	for _, f := range formulas {
		topicOfFormula[f.ID] = f.TopicID
	}

	byTopic := make(map[string][]schema.Exercise)
	for _, ex := range formulaExercises {
		if len(ex.FormulaIDs) == 0 {
			continue
		}
		topicID := topicOfFormula[ex.FormulaIDs[0]]
		if topicID != "" {
			byTopic[topicID] = append(byTopic[topicID], ex)
		}
	}
	for _, ex := range conceptual {
		for _, topicID := range ex.TopicIDs {
			byTopic[topicID] = append(byTopic[topicID], ex)
		}
	}
	return byTopic
}
