package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ndelvaux/notesmith/internal/schema"
)

// HeadingRule binds a heading pattern to the hierarchy level and topic type
// it produces. Rules are tried in order and the first match wins, so slice
// order encodes precedence.
type HeadingRule struct {
	Pattern *regexp.Regexp
	Level   int
	Type    schema.TopicType
}

// SegmenterConfig controls heading segmentation. Rules and stop words are
// owned here so callers can substitute a custom heading grammar or
// locale-specific stop words without touching the scan logic.
type SegmenterConfig struct {
	Rules           []HeadingRule
	StopWords       map[string]bool
	MaxContentLines int // Lines of content captured after a heading.
	MaxKeywords     int // Keywords kept per topic.
	MinTitleLen     int // Candidate titles shorter than this are rejected.
}

// DefaultRules is the standard heading grammar. Precedence is fixed: explicit
// "Chapter N" / "Section N" forms before bare numbering, bare numbering before
// markdown headers. Overlapping numbering styles (e.g. "1.2" vs "1. Two")
// resolve to whichever rule comes first; this is a fixed policy, not inference.
func DefaultRules() []HeadingRule {
	return []HeadingRule{
		{regexp.MustCompile(`(?i)^Chapter\s+(\d+(?:\.\d+)*)[:.]?\s+(.+)$`), 1, schema.TopicChapter},
		{regexp.MustCompile(`(?i)^Section\s+(\d+(?:\.\d+)*)[:.]?\s+(.+)$`), 2, schema.TopicSection},
		{regexp.MustCompile(`^(\d+)\.(\d+)\s+(.+)$`), 3, schema.TopicSubsection},
		{regexp.MustCompile(`^(\d+)\.\s+(.+)$`), 2, schema.TopicSection},
		{regexp.MustCompile(`^#{1,3}\s+(.+)$`), 2, schema.TopicSection},
	}
}

// DefaultSegmenterConfig returns the standard configuration.
func DefaultSegmenterConfig() SegmenterConfig {
	return SegmenterConfig{
		Rules:           DefaultRules(),
		StopWords:       defaultStopWords(),
		MaxContentLines: 50,
		MaxKeywords:     10,
		MinTitleLen:     3,
	}
}

// pageMarkerRe recognizes the page sentinel lines emitted by the parsers.
var pageMarkerRe = regexp.MustCompile(`^--- Page (\d+) ---$`)

// Segmenter scans document text for headings and builds the topic hierarchy.
type Segmenter struct {
	cfg SegmenterConfig
}

// NewSegmenter creates a segmenter, filling zero config fields with defaults.
func NewSegmenter(cfg SegmenterConfig) *Segmenter {
	if len(cfg.Rules) == 0 {
		cfg.Rules = DefaultRules()
	}
	if cfg.StopWords == nil {
		cfg.StopWords = defaultStopWords()
	}
	if cfg.MaxContentLines <= 0 {
		cfg.MaxContentLines = 50
	}
	if cfg.MaxKeywords <= 0 {
		cfg.MaxKeywords = 10
	}
	if cfg.MinTitleLen <= 0 {
		cfg.MinTitleLen = 3
	}
	return &Segmenter{cfg: cfg}
}

// SegmentHeadings produces the ordered topic sequence for a document.
// Unparseable or empty text yields an empty list, never an error.
func (s *Segmenter) SegmentHeadings(text string) []schema.Topic {
	var topics []schema.Topic
	lines := strings.Split(text, "\n")

	currentPage := 1
	nextID := 1

	for lineNum, raw := range lines {
		line := strings.TrimSpace(raw)

		if m := pageMarkerRe.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				currentPage = n
			}
			continue
		}
		if len(line) < 3 {
			continue
		}

		for _, rule := range s.cfg.Rules {
			m := rule.Pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			title := matchTitle(m)
			if len(title) >= s.cfg.MinTitleLen && !isNumeric(title) {
				content := s.captureContent(lines, lineNum)
				topics = append(topics, schema.Topic{
					ID:        fmt.Sprintf("topic-%d", nextID),
					Title:     title,
					Type:      rule.Type,
					Level:     rule.Level,
					Content:   content,
					PageRange: schema.PageRange{Start: currentPage, End: currentPage},
					Keywords:  s.extractKeywords(content),
				})
				nextID++
			}
			break // First matching rule wins.
		}
	}

	inferParents(topics)
	return topics
}

// matchTitle picks the title from a heading match: last non-empty captured
// group, falling back to the first group, falling back to the whole match.
func matchTitle(m []string) string {
	for i := len(m) - 1; i >= 1; i-- {
		if t := strings.TrimSpace(m[i]); t != "" {
			return t
		}
	}
	return strings.TrimSpace(m[0])
}

// captureContent collects the non-empty lines after a heading, stopping at
// the next line that matches any heading rule.
func (s *Segmenter) captureContent(lines []string, headingLine int) string {
	var out []string
	end := headingLine + 1 + s.cfg.MaxContentLines
	if end > len(lines) {
		end = len(lines)
	}
	for i := headingLine + 1; i < end; i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" || pageMarkerRe.MatchString(line) {
			continue
		}
		if s.isHeading(line) {
			break
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func (s *Segmenter) isHeading(line string) bool {
	for _, rule := range s.cfg.Rules {
		if rule.Pattern.MatchString(line) {
			return true
		}
	}
	return false
}

var wordRe = regexp.MustCompile(`[A-Za-z]{3,}`)

// extractKeywords keeps the most frequent content words: alphabetic, length
// over 3, not a stop word, frequency above 1. Ties keep first-seen order.
func (s *Segmenter) extractKeywords(content string) []string {
	freq := make(map[string]int)
	var order []string

	for _, w := range wordRe.FindAllString(strings.ToLower(content), -1) {
		if len(w) <= 3 || s.cfg.StopWords[w] {
			continue
		}
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}

	firstSeen := make(map[string]int, len(order))
	for i, w := range order {
		firstSeen[w] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		if freq[order[i]] != freq[order[j]] {
			return freq[order[i]] > freq[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	var keywords []string
	for _, w := range order {
		if freq[w] > 1 {
			keywords = append(keywords, w)
		}
		if len(keywords) == s.cfg.MaxKeywords {
			break
		}
	}
	return keywords
}

// inferParents links each topic to the nearest earlier topic with a strictly
// lower level. Topics with no eligible ancestor stay roots.
func inferParents(topics []schema.Topic) {
	for i := range topics {
		for j := i - 1; j >= 0; j-- {
			if topics[j].Level < topics[i].Level {
				topics[i].ParentID = topics[j].ID
				break
			}
		}
	}
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
