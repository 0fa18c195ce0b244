package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf16"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog"

	"github.com/docudetect/docu-detect/internal/models"
	"github.com/docudetect/docu-detect/internal/storage"
	"github.com/docudetect/docu-detect/pkg/utils"
)

// ErrExtraction marks an upload that could not be parsed as a PDF.
var ErrExtraction = errors.New("document could not be parsed")

const (
	uploadPrefix   = "uploads"
	fallbackTitle  = "Untitled Document"
	minTitleLength = 5
	maxTitleLength = 150
)

// Extractor pulls plain text and metadata out of uploaded PDF documents and
// persists the raw upload to durable storage.
type Extractor struct {
	store   storage.Storage
	logger  zerolog.Logger
	tempDir string
}

func New(store storage.Storage, logger zerolog.Logger) *Extractor {
	tempDir := filepath.Join(os.TempDir(), "docu-detect-pdf")
	os.MkdirAll(tempDir, 0o755)

	return &Extractor{
		store:   store,
		logger:  logger,
		tempDir: tempDir,
	}
}

// Extract saves the upload under a sanitized key, parses it and returns the
// full text plus whitespace-delimited word count.
func (e *Extractor) Extract(ctx context.Context, filename string, content []byte) (*models.ExtractedText, error) {
	key := uploadPrefix + "/" + utils.SanitizeFilename(filename)
	if err := e.store.Save(ctx, key, content); err != nil {
		return nil, fmt.Errorf("failed to save upload: %w", err)
	}

	text, err := e.extractText(content)
	if err != nil {
		e.logger.Warn().Err(err).Str("file", filename).Msg("PDF parsing failed")
		return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	return &models.ExtractedText{
		FullText:   text,
		WordCount:  len(strings.Fields(text)),
		SourcePath: key,
	}, nil
}

// GuessTitle returns the document title. Preference order: PDF metadata
// title, first heading-sized line of the text, fixed fallback. Never fails;
// metadata read errors degrade to the line scan.
func (e *Extractor) GuessTitle(ctx context.Context, sourcePath, fullText string) string {
	if title := e.metadataTitle(ctx, sourcePath); title != "" {
		return title
	}

	for _, line := range strings.Split(fullText, "\n") {
		line = strings.TrimSpace(line)
		n := len([]rune(line))
		if n < minTitleLength || n > maxTitleLength {
			continue
		}
		lower := strings.ToLower(line)
		if lower == "abstract" || lower == "references" {
			continue
		}
		return line
	}

	return fallbackTitle
}

func (e *Extractor) metadataTitle(ctx context.Context, sourcePath string) string {
	content, err := e.store.Read(ctx, sourcePath)
	if err != nil {
		return ""
	}

	tempFile, cleanup, err := e.writeTemp("meta", content)
	if err != nil {
		return ""
	}
	defer cleanup()

	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return ""
	}
	if pdfCtx.Info == nil {
		return ""
	}

	d, err := pdfCtx.DereferenceDict(*pdfCtx.Info)
	if err != nil || d == nil {
		return ""
	}
	title := d.StringEntry("Title")
	if title == nil {
		return ""
	}
	return strings.TrimSpace(decodePDFText(*title))
}

func (e *Extractor) extractText(content []byte) (string, error) {
	tempFile, cleanup, err := e.writeTemp("extract", content)
	if err != nil {
		return "", err
	}
	defer cleanup()

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}
	pageCount := pdfCtx.PageCount

	outDir, err := os.MkdirTemp(e.tempDir, "pages")
	if err != nil {
		return "", fmt.Errorf("failed to create extraction directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("failed to extract page content: %w", err)
	}

	pageTexts := make(map[int]string)
	files, _ := os.ReadDir(outDir)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		pageNum, ok := pageNumber(file.Name())
		if !ok {
			continue
		}
		pageTexts[pageNum] = contentStreamText(raw)
	}

	var builder strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		if pageNum > 1 {
			builder.WriteString("\n")
		}
		builder.WriteString(pageTexts[pageNum])
	}

	return builder.String(), nil
}

// pageNumber pulls the page index out of a pdfcpu content file name. pdfcpu
// prefixes extracted files with the input basename (for example
// "extract_123_Content_page_7.txt"), so match on the marker rather than the
// start of the name.
func pageNumber(name string) (int, bool) {
	var pageNum int
	if idx := strings.Index(name, "Content_page_"); idx >= 0 {
		if _, err := fmt.Sscanf(name[idx:], "Content_page_%d", &pageNum); err == nil {
			return pageNum, true
		}
	}
	if idx := strings.Index(name, "page_"); idx >= 0 {
		if _, err := fmt.Sscanf(name[idx:], "page_%d", &pageNum); err == nil {
			return pageNum, true
		}
	}
	return 0, false
}

func (e *Extractor) writeTemp(prefix string, content []byte) (string, func(), error) {
	f, err := os.CreateTemp(e.tempDir, prefix+"_*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	name := f.Name()
	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(name)
		return "", nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	f.Close()
	return name, func() { os.Remove(name) }, nil
}

// contentStreamText recovers the text shown by a PDF content stream. It walks
// the stream for string operands of the text-showing operators (Tj, TJ, ')
// and emits a newline at each text-positioning operator, which is how most
// generators encode line breaks.
func contentStreamText(stream []byte) string {
	var out strings.Builder
	var literal strings.Builder
	inString := false
	escaped := false
	depth := 0

	flushLine := func() {
		line := strings.TrimRight(out.String(), " ")
		if !strings.HasSuffix(line, "\n") {
			out.WriteString("\n")
		}
	}

	i := 0
	for i < len(stream) {
		c := stream[i]

		if inString {
			switch {
			case escaped:
				switch c {
				case 'n':
					literal.WriteByte('\n')
				case 't':
					literal.WriteByte('\t')
				case 'r', 'b', 'f':
					// ignored control escapes
				default:
					literal.WriteByte(c)
				}
				escaped = false
			case c == '\\':
				escaped = true
			case c == '(':
				depth++
				literal.WriteByte(c)
			case c == ')':
				if depth == 0 {
					inString = false
					out.WriteString(literal.String())
					out.WriteString(" ")
					literal.Reset()
				} else {
					depth--
					literal.WriteByte(c)
				}
			default:
				literal.WriteByte(c)
			}
			i++
			continue
		}

		if c == '(' {
			inString = true
			depth = 0
			i++
			continue
		}

		// Text positioning starts a new output line.
		if c == 'T' && i+1 < len(stream) {
			switch stream[i+1] {
			case 'd', 'D', '*':
				flushLine()
				i += 2
				continue
			}
		}
		if c == 'E' && i+1 < len(stream) && stream[i+1] == 'T' {
			flushLine()
			i += 2
			continue
		}

		i++
	}

	// Collapse trailing spaces per line, keep line structure.
	lines := strings.Split(out.String(), "\n")
	for j, line := range lines {
		lines[j] = strings.TrimRight(line, " ")
	}
	return strings.Join(lines, "\n")
}

// decodePDFText handles the UTF-16BE encoding PDF metadata strings may use.
func decodePDFText(s string) string {
	b := []byte(s)
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		b = b[2:]
		u16 := make([]uint16, 0, len(b)/2)
		for i := 0; i+1 < len(b); i += 2 {
			u16 = append(u16, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return string(utf16.Decode(u16))
	}
	return s
}
