package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/docudetect/docu-detect/internal/models"
	"github.com/docudetect/docu-detect/internal/repository"
	"github.com/docudetect/docu-detect/internal/service/analyzer"
	"github.com/docudetect/docu-detect/internal/service/citation"
	"github.com/docudetect/docu-detect/internal/service/extractor"
	"github.com/docudetect/docu-detect/internal/service/report"
	"github.com/docudetect/docu-detect/internal/service/summarizer"
)

// ErrNoFile marks an upload request without a file.
var ErrNoFile = errors.New("no file uploaded")

const generatedOnLayout = "2006-01-02T15:04:05Z"

// Upload is the raw uploaded document handed to the pipeline.
type Upload struct {
	Filename string
	Content  []byte
}

// PipelineService runs the document analysis pipeline for one upload:
// extraction, then summarization, similarity scoring and citation validation
// concurrently, then report rendering. Only extraction and report storage
// failures surface; the middle stages degrade to safe defaults.
type PipelineService struct {
	extractor  *extractor.Extractor
	summarizer *summarizer.Summarizer
	checker    *analyzer.PlagiarismChecker
	validator  *citation.Validator
	renderer   *report.Renderer
	history    repository.HistoryStore
	logger     zerolog.Logger
	now        func() time.Time
}

func NewPipelineService(
	ext *extractor.Extractor,
	sum *summarizer.Summarizer,
	checker *analyzer.PlagiarismChecker,
	validator *citation.Validator,
	renderer *report.Renderer,
	history repository.HistoryStore,
	logger zerolog.Logger,
) *PipelineService {
	return &PipelineService{
		extractor:  ext,
		summarizer: sum,
		checker:    checker,
		validator:  validator,
		renderer:   renderer,
		history:    history,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes the full pipeline and appends the resulting record to the
// user's history. No record or artifact exists if an error is returned.
func (s *PipelineService) Run(ctx context.Context, upload Upload, username, email string) (*models.AnalysisRecord, error) {
	if len(upload.Content) == 0 {
		return nil, ErrNoFile
	}

	start := s.now()

	extracted, err := s.extractor.Extract(ctx, upload.Filename, upload.Content)
	if err != nil {
		return nil, err
	}

	title := s.extractor.GuessTitle(ctx, extracted.SourcePath, extracted.FullText)

	// The three analysis stages share only the extracted text and absorb
	// their own failures, so they run concurrently.
	var (
		summary       string
		score         float64
		citationOrder []string
		citations     map[string]models.CitationStatus
		wg            sync.WaitGroup
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		summary = s.summarizer.Summarize(ctx, extracted.FullText)
	}()
	go func() {
		defer wg.Done()
		score = s.checker.Score(extracted.FullText)
	}()
	go func() {
		defer wg.Done()
		citationOrder, citations = s.validator.Validate(ctx, extracted.FullText)
	}()
	wg.Wait()

	generatedOn := s.now().UTC().Format(generatedOnLayout)

	reportID, _, err := s.renderer.Render(ctx, report.Input{
		Username:        username,
		Email:           email,
		Title:           title,
		WordCount:       extracted.WordCount,
		Summary:         summary,
		PlagiarismScore: score,
		CitationOrder:   citationOrder,
		Citations:       citations,
		GeneratedOn:     generatedOn,
	})
	if err != nil {
		return nil, err
	}

	record := &models.AnalysisRecord{
		ID:              reportID,
		Username:        username,
		Title:           title,
		WordCount:       extracted.WordCount,
		Summary:         summary,
		PlagiarismScore: score,
		Citations:       citations,
		GeneratedOn:     generatedOn,
	}

	if err := s.history.Append(ctx, email, record); err != nil {
		return nil, fmt.Errorf("failed to store analysis record: %w", err)
	}

	s.logger.Info().
		Str("report_id", reportID).
		Str("user", email).
		Int("word_count", extracted.WordCount).
		Float64("plagiarism_score", score).
		Int("citations", len(citations)).
		Dur("processing_time", s.now().Sub(start)).
		Msg("Analysis pipeline completed")

	return record, nil
}
