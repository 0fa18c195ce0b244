package report

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/docudetect/docu-detect/internal/models"
	"github.com/docudetect/docu-detect/internal/storage"
	"github.com/docudetect/docu-detect/pkg/utils"
)

const (
	reportPrefix = "reports"

	pageWidth  = 21.0 // A4, cm
	pageHeight = 29.7

	marginLeft   = 2.0
	valueX       = 4.0
	bottomMargin = 2.5
	topResetY    = 3.0
	lineHeight   = 0.55
	wrapWidth    = 100

	maxRenderedTitle     = 90
	maxRenderedCitations = 30
)

// Input carries everything the report page layout needs. CitationOrder lists
// the citation titles in the order they were extracted from the document;
// Citations maps each of them to its validation status.
type Input struct {
	Username        string
	Email           string
	Title           string
	WordCount       int
	Summary         string
	PlagiarismScore float64
	CitationOrder   []string
	Citations       map[string]models.CitationStatus
	GeneratedOn     string
}

// Renderer builds the analysis report PDF and persists it to durable storage
// under a freshly generated identifier.
type Renderer struct {
	store  storage.Storage
	logger zerolog.Logger
}

func NewRenderer(store storage.Storage, logger zerolog.Logger) *Renderer {
	return &Renderer{store: store, logger: logger}
}

// ArtifactKey returns the storage key of a report id.
func ArtifactKey(reportID string) string {
	return reportPrefix + "/" + reportID + ".pdf"
}

// Render generates the PDF and writes it to storage before returning. The
// returned id identifies both the artifact and the analysis record.
func (r *Renderer) Render(ctx context.Context, in Input) (string, string, error) {
	reportID := uuid.New().String()
	key := ArtifactKey(reportID)

	content, err := r.build(in)
	if err != nil {
		return "", "", fmt.Errorf("failed to render report: %w", err)
	}

	if err := r.store.Save(ctx, key, content); err != nil {
		return "", "", fmt.Errorf("failed to persist report: %w", err)
	}

	r.logger.Info().
		Str("report_id", reportID).
		Int("size", len(content)).
		Msg("Report artifact generated")

	return reportID, key, nil
}

func (r *Renderer) build(in Input) ([]byte, error) {
	pdf := fpdf.New("P", "cm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Header band.
	pdf.SetFillColor(0x0D, 0x1B, 0x2A)
	pdf.Rect(0, 0, pageWidth, 2.0, "F")
	pdf.SetTextColor(0xE0, 0xE1, 0xDD)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(marginLeft, 1.3, tr("DOCU-DETECT — Analysis Report"))

	y := topResetY
	pdf.SetTextColor(0, 0, 0)

	field := func(label, value string) float64 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Text(marginLeft, y, label)
		pdf.SetFont("Helvetica", "", 12)
		pdf.Text(valueX, y, tr(value))
		return y
	}

	field("Title:", utils.TruncateRunes(in.Title, maxRenderedTitle))
	y += 0.7
	field("User:", fmt.Sprintf("%s  <%s>", in.Username, in.Email))
	y += 0.7
	field("Generated On:", in.GeneratedOn)
	y += 0.7
	field("Word Count:", fmt.Sprintf("%d", in.WordCount))
	y += 0.7
	field("Plagiarism Score:", fmt.Sprintf("%.1f%%", in.PlagiarismScore))
	y += 1.0

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(marginLeft, y, "Summary:")
	y += 0.6
	pdf.SetFont("Helvetica", "", 11)
	y = r.writeWrapped(pdf, tr, in.Summary, y)
	y += 0.6

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(marginLeft, y, "Citations:")
	y += 0.6
	pdf.SetFont("Helvetica", "", 11)

	titles := renderedCitations(in)
	if len(titles) == 0 {
		r.writeWrapped(pdf, tr, "No citations detected.", y)
	} else {
		for _, title := range titles {
			y = r.writeWrapped(pdf, tr, fmt.Sprintf("- %s   [%s]", title, in.Citations[title]), y)
			if y > pageHeight-3.0 {
				pdf.AddPage()
				y = topResetY
			}
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderedCitations returns the citation titles to draw: document extraction
// order, capped to the first maxRenderedCitations entries.
func renderedCitations(in Input) []string {
	titles := in.CitationOrder
	if len(titles) > maxRenderedCitations {
		titles = titles[:maxRenderedCitations]
	}
	return titles
}

// writeWrapped draws text wrapped at a fixed character width, starting a new
// page whenever the cursor would pass the bottom margin. Returns the cursor
// position after the last line.
func (r *Renderer) writeWrapped(pdf *fpdf.Fpdf, tr func(string) string, text string, y float64) float64 {
	for _, line := range utils.WrapText(text, wrapWidth) {
		pdf.Text(marginLeft, y, tr(line))
		y += lineHeight
		if y > pageHeight-bottomMargin {
			pdf.AddPage()
			y = topResetY
		}
	}
	return y
}
