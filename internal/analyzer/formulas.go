package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ndelvaux/notesmith/internal/schema"
)

// FormulaPattern is one pattern class in the extraction sequence. Delimiter
// LaTeX patterns run first, bare mathematical-expression patterns second;
// the latter pass through the validity filter.
type FormulaPattern struct {
	Pattern  *regexp.Regexp
	Type     schema.FormulaType
	Validate bool // Apply ValidFormula before accepting a match.
}

// DefaultFormulaPatterns returns the ordered pattern classes: delimiter-based
// LaTeX first, bare expressions second.
func DefaultFormulaPatterns() []FormulaPattern {
	return []FormulaPattern{
		// Delimiter-based LaTeX.
		{regexp.MustCompile(`\$\$([^$]+)\$\$`), schema.FormulaLaTeX, false},
		{regexp.MustCompile(`\$([^$\n]{3,})\$`), schema.FormulaLaTeX, false},
		{regexp.MustCompile(`(?s)\\begin\{equation\}(.*?)\\end\{equation\}`), schema.FormulaLaTeX, false},
		{regexp.MustCompile(`(?s)\\begin\{align\}(.*?)\\end\{align\}`), schema.FormulaLaTeX, false},
		{regexp.MustCompile(`(?s)\\begin\{gather\}(.*?)\\end\{gather\}`), schema.FormulaLaTeX, false},

		// Bare mathematical expressions.
		{regexp.MustCompile(`([A-Za-z_]\w*\s*=\s*[^,.\n]{5,60})`), schema.FormulaExpression, true},
		{regexp.MustCompile(`([∫∑∏∂√][^,.\n]{3,60})`), schema.FormulaExpression, true},
		{regexp.MustCompile(`([A-Za-z_]\w*\([^)\n]+\)\s*=\s*[^,.\n]{3,60})`), schema.FormulaExpression, true},
		{regexp.MustCompile(`(d[A-Za-z_]\w*/d[A-Za-z_]\w*[^,.\n]*)`), schema.FormulaExpression, true},
		{regexp.MustCompile(`(∂[A-Za-z_]\w*/∂[A-Za-z_]\w*[^,.\n]*)`), schema.FormulaExpression, true},
	}
}

// ExtractorConfig controls formula extraction. Patterns live here rather
// than at module level so callers can supply a custom grammar.
type ExtractorConfig struct {
	Patterns      []FormulaPattern
	ContextRadius int // Characters of context captured around a match.
	MinFormulaLen int
}

// DefaultExtractorConfig returns the standard configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Patterns:      DefaultFormulaPatterns(),
		ContextRadius: 150,
		MinFormulaLen: 3,
	}
}

// Extractor finds formula candidates in document text.
type Extractor struct {
	cfg ExtractorConfig
}

// NewExtractor creates an extractor, filling zero config fields with defaults.
func NewExtractor(cfg ExtractorConfig) *Extractor {
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = DefaultFormulaPatterns()
	}
	if cfg.ContextRadius <= 0 {
		cfg.ContextRadius = 150
	}
	if cfg.MinFormulaLen <= 0 {
		cfg.MinFormulaLen = 3
	}
	return &Extractor{cfg: cfg}
}

// ExtractFormulas returns formula candidates deduplicated by normalized key
// (whitespace stripped, lowercased), keeping the earliest occurrence of each.
// Each pattern scans a copy of the text where spans consumed by earlier
// patterns are blanked out, so a display-math block is never re-extracted as
// an inline or bare-expression match. A pattern producing zero matches is not
// an error; empty text yields nil.
func (e *Extractor) ExtractFormulas(text string) []schema.FormulaCandidate {
	var found []schema.FormulaCandidate
	scan := []byte(text)

	for _, pc := range e.cfg.Patterns {
		matches := pc.Pattern.FindAllSubmatchIndex(scan, -1)
		for _, loc := range matches {
			raw := text[loc[0]:loc[1]]
			formula := raw
			if len(loc) >= 4 && loc[2] >= 0 {
				formula = text[loc[2]:loc[3]]
			}
			formula = strings.TrimSpace(formula)

			// Blank the span regardless of acceptance: it has been consumed.
			maskSpan(scan, loc[0], loc[1])

			if len(formula) < e.cfg.MinFormulaLen || isNumeric(formula) {
				continue
			}
			if pc.Validate && !ValidFormula(formula) {
				continue
			}

			found = append(found, schema.FormulaCandidate{
				Latex:    formula,
				Type:     pc.Type,
				Context:  e.contextWindow(text, loc[0], loc[1]),
				Position: loc[0],
				Raw:      raw,
			})
		}
	}

	return dedupCandidates(found)
}

// maskSpan overwrites a consumed span with spaces, preserving offsets.
func maskSpan(scan []byte, start, end int) {
	for i := start; i < end; i++ {
		scan[i] = ' '
	}
}

// contextWindow captures text around a match span with newlines collapsed.
func (e *Extractor) contextWindow(text string, start, end int) string {
	lo := start - e.cfg.ContextRadius
	if lo < 0 {
		lo = 0
	}
	hi := end + e.cfg.ContextRadius
	if hi > len(text) {
		hi = len(text)
	}
	return strings.Join(strings.Fields(text[lo:hi]), " ")
}

// dedupCandidates sorts by source position and keeps the first occurrence of
// each normalized key. Surviving candidates get sequential ids.
func dedupCandidates(candidates []schema.FormulaCandidate) []schema.FormulaCandidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Position < candidates[j].Position
	})

	seen := make(map[string]bool, len(candidates))
	var unique []schema.FormulaCandidate
	for _, c := range candidates {
		key := NormalizeFormula(c.Latex)
		if len(key) <= 2 || seen[key] {
			continue
		}
		seen[key] = true
		c.ID = fmt.Sprintf("formula-%d", len(unique)+1)
		unique = append(unique, c)
	}
	return unique
}

// NormalizeFormula strips all whitespace and lowercases, producing the
// dedup key for a formula string.
func NormalizeFormula(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

var nonFormulaRes = []*regexp.Regexp{
	regexp.MustCompile(`^[0-9]+$`),                  // Pure number.
	regexp.MustCompile(`^[a-z]+\s*=\s*[a-z]+$`),     // Trivial variable assignment.
	regexp.MustCompile(`^page\s*=\s*\d+`),           // Page reference.
	regexp.MustCompile(`^chapter\s*=`),              // Chapter reference.
}

const mathIndicators = "=+-*/^∫∑∏∂√()"

// ValidFormula rejects candidates matching known non-formula shapes and
// requires at least one math indicator in the raw text.
func ValidFormula(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, re := range nonFormulaRes {
		if re.MatchString(lower) {
			return false
		}
	}
	return strings.ContainsAny(s, mathIndicators)
}
