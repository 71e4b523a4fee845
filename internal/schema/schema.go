package schema

import "time"

// TopicType classifies a segmented heading.
type TopicType string

const (
	TopicChapter    TopicType = "chapter"
	TopicSection    TopicType = "section"
	TopicSubsection TopicType = "subsection"
	TopicConcept    TopicType = "concept"
)

// FormulaType tags a formula candidate at extraction time (latex, expression)
// and is refined during enrichment (equation, theorem, definition, property).
type FormulaType string

const (
	FormulaLaTeX      FormulaType = "latex"
	FormulaExpression FormulaType = "expression"
	FormulaEquation   FormulaType = "equation"
	FormulaTheorem    FormulaType = "theorem"
	FormulaDefinition FormulaType = "definition"
	FormulaProperty   FormulaType = "property"
)

// ExerciseType classifies a generated exercise.
type ExerciseType string

const (
	ExerciseSimpleApplication ExerciseType = "simple_application"
	ExerciseComprehensive     ExerciseType = "comprehensive"
	ExerciseDerivation        ExerciseType = "derivation"
	ExerciseConceptual        ExerciseType = "conceptual"
)

// Document is the raw text produced by a parser. Page boundaries are marked
// with "--- Page N ---" sentinel lines; a document without sentinels is
// treated as a single page by the analyzer.
type Document struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Pages int    `json:"pages"`
}

// PageRange is an inclusive [start, end] page span.
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Topic is a segmented heading with inferred hierarchy. Immutable after
// assembly except for ParentID, which hierarchy inference fills in, and the
// keyword union applied when a duplicate candidate is merged into it.
type Topic struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      TopicType `json:"type"`
	Level     int       `json:"level"`
	ParentID  string    `json:"parent_id,omitempty"`
	Content   string    `json:"content"`
	PageRange PageRange `json:"page_range"`
	Keywords  []string  `json:"keywords"`
}

// FormulaCandidate is a raw pattern-extracted formula before enrichment.
// Position is the source offset, used only for ordering and dedup.
type FormulaCandidate struct {
	ID       string      `json:"id"`
	Latex    string      `json:"latex"`
	Type     FormulaType `json:"type"`
	Context  string      `json:"context"`
	Position int         `json:"position"`
	Raw      string      `json:"raw_match"`
}

// Formula is an enriched formula tied to a topic.
type Formula struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Latex        string      `json:"latex"`
	Type         FormulaType `json:"type"`
	TopicID      string      `json:"topic_id"`
	Explanation  string      `json:"explanation,omitempty"`
	Applications []string    `json:"applications,omitempty"`
	Context      string      `json:"context"`
	PageNumber   int         `json:"page_number"`
}

// Exercise is a generated practice question.
type Exercise struct {
	ID         string       `json:"id"`
	Question   string       `json:"question"`
	Type       ExerciseType `json:"type"`
	FormulaIDs []string     `json:"formula_ids,omitempty"`
	TopicIDs   []string     `json:"topic_ids,omitempty"`
	Solution   string       `json:"solution,omitempty"`
	Difficulty int          `json:"difficulty"`
	Hints      []string     `json:"hints,omitempty"`
}

// NoteSection is one topic's slice of the assembled notes.
type NoteSection struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	TopicID   string     `json:"topic_id"`
	Formulas  []Formula  `json:"formulas,omitempty"`
	Exercises []Exercise `json:"exercises,omitempty"`
	Order     int        `json:"order"`
}

// StudyNotes is the assembled output of one document-processing run.
type StudyNotes struct {
	ID                     string        `json:"id"`
	Title                  string        `json:"title"`
	SourceFilename         string        `json:"source_filename"`
	Sections               []NoteSection `json:"sections"`
	ComprehensiveExercises []Exercise    `json:"comprehensive_exercises,omitempty"`
	Summary                string        `json:"summary"`
	CreatedAt              time.Time     `json:"created_at"`
}
