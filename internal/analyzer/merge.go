package analyzer

import (
	"strings"

	"github.com/ndelvaux/notesmith/internal/schema"
)

// MergeThreshold is the title similarity above which a candidate topic is
// treated as a duplicate of an existing one.
const MergeThreshold = 0.7

// MergeTopics combines structurally-derived topics with externally-supplied
// candidates (e.g. model-proposed). Structural topics are trusted for page
// positions and come first. A candidate whose title is similar to an existing
// topic contributes its keywords to that topic instead of becoming a new
// entry; comparison walks the merged list in order and the first topic over
// the threshold wins. Non-duplicates are appended only when their title is
// longer than 3 characters.
func MergeTopics(structural, candidates []schema.Topic) []schema.Topic {
	merged := make([]schema.Topic, len(structural))
	copy(merged, structural)

	for _, cand := range candidates {
		duplicate := false
		for i := range merged {
			if TitleSimilarity(cand.Title, merged[i].Title) > MergeThreshold {
				merged[i].Keywords = unionKeywords(merged[i].Keywords, cand.Keywords)
				duplicate = true
				break
			}
		}
		if !duplicate && len(cand.Title) > 3 {
			merged = append(merged, cand)
		}
	}
	return merged
}

// TitleSimilarity is token-set Jaccard similarity on lowercased titles:
// |intersection| / |union|, zero when either title has no tokens.
func TitleSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	inter := 0
	union := len(setB)
	for w := range setA {
		if setB[w] {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}

// unionKeywords merges two keyword lists, deduplicated, preserving the order
// of first appearance.
func unionKeywords(existing, extra []string) []string {
	seen := make(map[string]bool, len(existing)+len(extra))
	out := make([]string, 0, len(existing)+len(extra))
	for _, lists := range [][]string{existing, extra} {
		for _, k := range lists {
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// AttachFormulas resolves each formula's topic association. A formula whose
// topic id does not name a known topic falls back to the first topic; with no
// topics at all the association is left empty.
func AttachFormulas(formulas []schema.Formula, topics []schema.Topic) {
	if len(topics) == 0 {
		return
	}
	known := make(map[string]bool, len(topics))
	for _, t := range topics {
		known[t.ID] = true
	}
	for i := range formulas {
		if !known[formulas[i].TopicID] {
			formulas[i].TopicID = topics[0].ID
		}
	}
}
