package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docudetect/docu-detect/internal/config"
	"github.com/docudetect/docu-detect/internal/models"
	"github.com/docudetect/docu-detect/internal/repository"
	"github.com/docudetect/docu-detect/internal/service/analyzer"
	"github.com/docudetect/docu-detect/internal/service/citation"
	"github.com/docudetect/docu-detect/internal/service/extractor"
	"github.com/docudetect/docu-detect/internal/service/report"
	"github.com/docudetect/docu-detect/internal/service/summarizer"
	"github.com/docudetect/docu-detect/internal/storage"
)

type tableSearcher struct {
	matches map[string]bool
}

func (s tableSearcher) HasMatch(ctx context.Context, title string) (bool, error) {
	return s.matches[title], nil
}

func newTestPipeline(t *testing.T, searcher citation.Searcher) (*PipelineService, *repository.MemoryHistoryStore, storage.Storage) {
	t.Helper()
	log := zerolog.Nop()

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	history := repository.NewMemoryHistoryStore()

	svc := NewPipelineService(
		extractor.New(store, log),
		summarizer.New(nil, config.SummarizerConfig{FallbackWords: 10}, log),
		analyzer.NewPlagiarismChecker(t.TempDir(), log),
		citation.NewValidator(searcher, 2, log),
		report.NewRenderer(store, log),
		history,
		log,
	)
	return svc, history, store
}

// buildTestDocument assembles a small single-page PDF with one line of text
// per entry.
func buildTestDocument(t *testing.T, lines []string) []byte {
	t.Helper()

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	y := 60.0
	for _, line := range lines {
		pdf.Text(60, y, line)
		y += 18
	}

	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func TestRunFullAnalysis(t *testing.T) {
	searcher := tableSearcher{matches: map[string]bool{"Deep Learning Basics": true}}
	svc, history, store := newTestPipeline(t, searcher)

	doc := buildTestDocument(t, []string{
		"A Survey of Document Analysis",
		"",
		"This short survey walks through extraction, summarization and",
		"similarity scoring of uploaded manuscripts, with references.",
		"References",
		`[1] "Deep Learning Basics"`,
		`[2] "Totally Unknown Paper"`,
	})

	record, err := svc.Run(context.Background(), Upload{
		Filename: "survey.pdf",
		Content:  doc,
	}, "alice", "alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, "A Survey of Document Analysis", record.Title)
	assert.Greater(t, record.WordCount, 0)
	assert.NotEmpty(t, record.Summary)
	assert.Equal(t, models.CitationValid, record.Citations["Deep Learning Basics"])
	assert.Equal(t, models.CitationNotFound, record.Citations["Totally Unknown Paper"])

	// The artifact must be readable as soon as Run returns.
	content, err := store.Read(context.Background(), report.ArtifactKey(record.ID))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF-"))

	records, err := history.List(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)
}

func TestRunEmptyUpload(t *testing.T) {
	svc, history, _ := newTestPipeline(t, tableSearcher{})

	_, err := svc.Run(context.Background(), Upload{Filename: "doc.pdf"}, "alice", "alice@example.com")
	assert.ErrorIs(t, err, ErrNoFile)

	records, err := history.List(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRunUnparsableUploadLeavesNoRecord(t *testing.T) {
	svc, history, _ := newTestPipeline(t, tableSearcher{})

	_, err := svc.Run(context.Background(), Upload{
		Filename: "broken.pdf",
		Content:  []byte("this is not a pdf at all"),
	}, "alice", "alice@example.com")
	assert.ErrorIs(t, err, extractor.ErrExtraction)

	records, err := history.List(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, records)
}
