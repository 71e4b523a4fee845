package notes

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndelvaux/notesmith/internal/schema"
)

// ToMarkdown renders assembled notes as a standalone markdown document.
func ToMarkdown(n schema.StudyNotes) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", n.Title)
	fmt.Fprintf(&sb, "**Source**: %s  \n", n.SourceFilename)
	fmt.Fprintf(&sb, "**Generated**: %s  \n", n.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "**Sections**: %d\n\n", len(n.Sections))

	sb.WriteString("## Summary\n\n")
	sb.WriteString(n.Summary)
	sb.WriteString("\n\n")

	if len(n.Sections) > 1 {
		sb.WriteString("## Table of Contents\n\n")
		for _, s := range n.Sections {
			fmt.Fprintf(&sb, "%d. [%s](#%s)\n", s.Order, s.Title, anchor(s.Title))
		}
		sb.WriteString("\n")
	}

	for _, s := range n.Sections {
		sb.WriteString(s.Content)
		sb.WriteString("\n\n")

		if len(s.Exercises) > 0 {
			sb.WriteString("### Practice Exercises\n\n")
			for i, ex := range s.Exercises {
				sb.WriteString(formatExercise(ex, i+1, "####"))
			}
		}
	}

	if len(n.ComprehensiveExercises) > 0 {
		sb.WriteString("---\n\n")
		sb.WriteString("## Comprehensive Exercises\n\n")
		sb.WriteString("*These exercises combine concepts from multiple topics.*\n\n")
		for i, ex := range n.ComprehensiveExercises {
			sb.WriteString(formatExercise(ex, i+1, "###"))
		}
	}

	sb.WriteString("---\n\n*Generated by notesmith*\n")
	return sb.String()
}

func formatExercise(ex schema.Exercise, number int, heading string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s Exercise %d %s\n\n", heading, number, difficultyStars(ex.Difficulty))
	sb.WriteString(ex.Question)
	sb.WriteString("\n\n")

	for i, hint := range ex.Hints {
		fmt.Fprintf(&sb, "> Hint %d: %s\n", i+1, hint)
	}
	if len(ex.Hints) > 0 {
		sb.WriteString("\n")
	}
	if ex.Solution != "" {
		sb.WriteString("<details><summary>Solution</summary>\n\n")
		sb.WriteString(ex.Solution)
		sb.WriteString("\n\n</details>\n\n")
	}
	return sb.String()
}

func difficultyStars(d int) string {
	if d < 1 {
		d = 1
	}
	if d > 5 {
		d = 5
	}
	return strings.Repeat("★", d) + strings.Repeat("☆", 5-d)
}

// anchor converts a title to a GitHub-style heading anchor.
func anchor(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteByte('-')
		}
	}
	return b.String()
}
