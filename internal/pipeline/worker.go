package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ndelvaux/notesmith/internal/analyzer"
	"github.com/ndelvaux/notesmith/internal/enrich"
	"github.com/ndelvaux/notesmith/internal/exercises"
	"github.com/ndelvaux/notesmith/internal/notes"
	"github.com/ndelvaux/notesmith/internal/parser"
	"github.com/ndelvaux/notesmith/internal/schema"
)

// comprehensiveCount is how many multi-formula exercises a document gets.
const comprehensiveCount = 2

// Worker runs the full note-generation pipeline for one job at a time.
type Worker struct {
	llm       *enrich.Client
	gen       *exercises.Generator
	notes     *notes.Store
	segmenter *analyzer.Segmenter
	extractor *analyzer.Extractor
	log       *slog.Logger

	tokenBudget int
}

func NewWorker(llm *enrich.Client, gen *exercises.Generator, store *notes.Store, log *slog.Logger, tokenBudget int) *Worker {
	return &Worker{
		llm:         llm,
		gen:         gen,
		notes:       store,
		segmenter:   analyzer.NewSegmenter(analyzer.DefaultSegmenterConfig()),
		extractor:   analyzer.NewExtractor(analyzer.DefaultExtractorConfig()),
		log:         log,
		tokenBudget: tokenBudget,
	}
}

// Process runs a job through every phase. Parsing and analysis failures fail
// the job; enrichment and exercise failures degrade to fallback content.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Parse.
	job.SetStatus(StatusParsing, progressParsing, "parsing document")
	doc, err := w.parse(job)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, progressParsing, "could not parse document")
		return
	}
	if strings.TrimSpace(doc.Text) == "" {
		job.AddError("no extractable text")
		job.SetStatus(StatusFailed, progressParsing, "document has no extractable text")
		return
	}
	log.Info("parsed document", "title", doc.Title, "pages", doc.Pages, "chars", len(doc.Text))

	// Phase 2: Structural analysis.
	job.SetStatus(StatusAnalyzing, progressAnalyzing, "detecting topics")
	structural := w.segmenter.SegmentHeadings(doc.Text)
	log.Info("segmented document", "topics", len(structural))

	// Phase 3: Formula extraction.
	job.SetStatus(StatusExtracting, progressExtracting, "extracting formulas")
	candidates := w.extractor.ExtractFormulas(doc.Text)
	log.Info("extracted formula candidates", "count", len(candidates))

	// Phase 4: LLM enrichment. Failures here never fail the job.
	job.SetStatus(StatusEnriching, progressEnriching, "enriching topics and formulas")
	topics := structural
	if proposed, err := w.llm.ProposeTopics(ctx, doc.Text, structural, w.tokenBudget, log); err != nil {
		log.Warn("topic analysis degraded to structural headings", "error", err)
		job.AddError(fmt.Sprintf("topic analysis: %s", err))
	} else {
		topics = analyzer.MergeTopics(structural, proposed)
	}
	if len(topics) == 0 {
		topics = []schema.Topic{fallbackTopic(doc)}
	}

	formulas := w.llm.EnrichFormulas(ctx, candidates, topics, log)
	analyzer.AttachFormulas(formulas, topics)
	log.Info("enrichment complete", "topics", len(topics), "formulas", len(formulas))

	// Phase 5: Exercises.
	job.SetStatus(StatusExercises, progressExercises, "generating exercises")
	formulaExercises := w.gen.FormulaExercises(ctx, formulas, topics)
	comprehensive := w.gen.Comprehensive(ctx, formulas, topics, comprehensiveCount)
	conceptual := w.gen.Conceptual(ctx, topics)
	log.Info("exercises generated",
		"per_formula", len(formulaExercises),
		"comprehensive", len(comprehensive),
		"conceptual", len(conceptual))

	// Phase 6: Assemble and store.
	job.SetStatus(StatusAssembling, progressAssembling, "assembling notes")
	notesID := generateULID()
	assembled := notes.Assemble(notesID, *doc, job.Filename, topics, formulas, formulaExercises, comprehensive, conceptual)
	w.notes.Put(assembled)

	job.SetNotes(notesID)
	log.Info("notes ready", "notes_id", notesID, "sections", len(assembled.Sections))
}

func (w *Worker) parse(job *Job) (*schema.Document, error) {
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(job.FilePath())
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return p.Parse(f, job.Filename)
}

// fallbackTopic covers documents where neither heading detection nor the LLM
// produced a topic, so formulas and exercises still have a home.
func fallbackTopic(doc *schema.Document) schema.Topic {
	title := doc.Title
	if title == "" {
		title = "Overview"
	}
	content := doc.Text
	if len(content) > 2000 {
		content = content[:2000]
	}
	return schema.Topic{
		ID:        "topic-1",
		Title:     title,
		Type:      schema.TopicConcept,
		Level:     1,
		Content:   content,
		PageRange: schema.PageRange{Start: 1, End: doc.Pages},
	}
}
