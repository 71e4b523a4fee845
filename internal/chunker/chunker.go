// Package chunker splits text into token-budget-bounded pieces for
// enrichment calls, preferring paragraph boundaries and falling back to
// sentence boundaries. A single sentence over budget is emitted whole as a
// last resort; chunks are never empty.
package chunker

import "strings"

// DefaultTokenBudget bounds text handed to a single enrichment call.
const DefaultTokenBudget = 2000

// EstimateTokens approximates token count as characters / 4, with a minimum
// of one token for non-empty text. Exact tokenization is not required here.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	tokens := len(text) / 4
	if tokens < 1 {
		tokens = 1
	}
	return tokens
}

// Split breaks text into chunks within tokenBudget, preserving read order.
// The whole text is returned as one chunk when it fits. Otherwise blank-line
// paragraphs are greedily packed; a paragraph over budget on its own is split
// on sentence boundaries and those are packed the same way. For paragraph-
// level splits the character content is preserved losslessly.
func Split(text string, tokenBudget int) []string {
	if tokenBudget <= 0 {
		tokenBudget = DefaultTokenBudget
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if EstimateTokens(text) <= tokenBudget {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentTokens := 0

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentTokens = 0
		}
	}

	for _, para := range splitParagraphs(text) {
		paraTokens := EstimateTokens(para)

		if paraTokens > tokenBudget {
			flush()
			chunks = append(chunks, packSentences(para, tokenBudget)...)
			continue
		}

		if currentTokens+paraTokens > tokenBudget && currentTokens > 0 {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}
	flush()

	return chunks
}

// splitParagraphs splits on blank lines, keeping paragraph content verbatim
// and dropping whitespace-only segments.
func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// packSentences splits an oversized paragraph on ". " boundaries and greedily
// packs the sentences. A sentence exceeding the budget by itself is emitted
// whole, oversized.
func packSentences(para string, tokenBudget int) []string {
	var chunks []string
	var current strings.Builder
	currentTokens := 0

	for _, sent := range strings.Split(para, ". ") {
		sent = strings.TrimSpace(sent)
		if sent == "" {
			continue
		}
		sentTokens := EstimateTokens(sent)

		if currentTokens+sentTokens > tokenBudget && currentTokens > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentTokens = 0
		}
		if current.Len() > 0 {
			current.WriteString(". ")
		}
		current.WriteString(sent)
		currentTokens += sentTokens
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
