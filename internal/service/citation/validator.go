package citation

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/docudetect/docu-detect/internal/models"
)

const minQueryTitle = 4

// Searcher checks a scholarly metadata service for a title match.
type Searcher interface {
	HasMatch(ctx context.Context, title string) (bool, error)
}

// Validator classifies each extracted reference as Valid or Not Found by
// querying a scholarly search service. Lookup failures of any kind degrade to
// Not Found and never abort the remaining entries.
type Validator struct {
	searcher       Searcher
	logger         zerolog.Logger
	maxConcurrency int
}

func NewValidator(searcher Searcher, maxConcurrency int, logger zerolog.Logger) *Validator {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &Validator{
		searcher:       searcher,
		logger:         logger,
		maxConcurrency: maxConcurrency,
	}
}

// Validate extracts references from the text and returns the cleaned titles in
// extraction order (deduplicated on first occurrence) together with a mapping
// from cleaned title to validation status. Lookups fan out concurrently, but
// statuses are committed in extraction order so duplicate cleaned titles keep
// deterministic last-write-wins semantics.
func (v *Validator) Validate(ctx context.Context, fullText string) ([]string, map[string]models.CitationStatus) {
	refs := ExtractReferences(fullText)

	titles := make([]string, len(refs))
	for i, raw := range refs {
		title := CleanTitle(raw)
		if len([]rune(title)) < minQueryTitle {
			continue
		}
		titles[i] = title
	}

	statuses := make([]models.CitationStatus, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.maxConcurrency)

	for i, title := range titles {
		if title == "" {
			continue
		}
		g.Go(func() error {
			statuses[i] = v.lookup(gctx, title)
			return nil
		})
	}
	g.Wait()

	var order []string
	results := make(map[string]models.CitationStatus)
	for i, title := range titles {
		if title == "" {
			continue
		}
		if _, seen := results[title]; !seen {
			order = append(order, title)
		}
		results[title] = statuses[i]
	}
	return order, results
}

func (v *Validator) lookup(ctx context.Context, title string) models.CitationStatus {
	found, err := v.searcher.HasMatch(ctx, title)
	if err != nil {
		v.logger.Debug().Err(err).Str("title", title).Msg("Citation lookup failed")
		return models.CitationNotFound
	}
	if found {
		return models.CitationValid
	}
	return models.CitationNotFound
}
