package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/docudetect/docu-detect/internal/config"
)

const emptySummary = "No text could be extracted from this document."

// Model produces a short summary for a block of text. Implementations may
// fail; the Summarizer absorbs every failure.
type Model interface {
	Complete(ctx context.Context, text string) (string, error)
}

// Summarizer reduces extracted text to a short summary. It degrades to a
// deterministic truncation of the input whenever the model is missing,
// errors, or returns nothing, so summarization can never abort the pipeline.
type Summarizer struct {
	model         Model
	logger        zerolog.Logger
	timeout       time.Duration
	fallbackWords int
}

func New(model Model, cfg config.SummarizerConfig, logger zerolog.Logger) *Summarizer {
	fallbackWords := cfg.FallbackWords
	if fallbackWords <= 0 {
		fallbackWords = 60
	}
	return &Summarizer{
		model:         model,
		logger:        logger,
		timeout:       cfg.Timeout,
		fallbackWords: fallbackWords,
	}
}

func (s *Summarizer) Summarize(ctx context.Context, fullText string) string {
	if strings.TrimSpace(fullText) == "" {
		return emptySummary
	}

	if s.model == nil {
		return s.fallback(fullText)
	}

	modelCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		modelCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	summary, err := s.model.Complete(modelCtx, fullText)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Summarization model failed, using fallback")
		return s.fallback(fullText)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return s.fallback(fullText)
	}
	return summary
}

func (s *Summarizer) fallback(fullText string) string {
	words := strings.Fields(fullText)
	if len(words) <= s.fallbackWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:s.fallbackWords], " ") + " ..."
}

var errNoAPIKey = errors.New("summarizer API key not configured")

// NewModel builds the configured model backend, or nil when no API key is
// set. A nil model is valid: the Summarizer falls back to truncation.
func NewModel(cfg config.SummarizerConfig, logger zerolog.Logger) (Model, error) {
	if cfg.APIKey == "" {
		logger.Info().Msg("No summarizer API key configured, summaries fall back to truncation")
		return nil, nil
	}
	model, err := newClaudeModel(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create summarization model: %w", err)
	}
	return model, nil
}
