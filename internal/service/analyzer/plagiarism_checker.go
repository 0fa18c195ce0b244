package analyzer

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/docudetect/docu-detect/pkg/utils"
)

// PlagiarismChecker scores uploaded text against a local reference corpus.
type PlagiarismChecker struct {
	corpusDir string
	logger    zerolog.Logger
}

func NewPlagiarismChecker(corpusDir string, logger zerolog.Logger) *PlagiarismChecker {
	return &PlagiarismChecker{
		corpusDir: corpusDir,
		logger:    logger,
	}
}

// Score returns the best cosine similarity between the target text and any
// corpus document as a percentage in [0,100], rounded to one decimal.
// An empty corpus scores 0.0 exactly.
func (c *PlagiarismChecker) Score(targetText string) float64 {
	corpus := c.loadCorpus()
	if len(corpus) == 0 {
		return 0.0
	}

	docs := append(corpus, targetText)
	vectors := tfidfVectors(docs)

	target := vectors[len(vectors)-1]
	best := 0.0
	for _, vec := range vectors[:len(vectors)-1] {
		if sim := cosine(target, vec); sim > best {
			best = sim
		}
	}

	return utils.Round1(best * 100.0)
}

// loadCorpus reads every .txt file under the corpus directory recursively.
// Unreadable files are skipped.
func (c *PlagiarismChecker) loadCorpus() []string {
	var texts []string

	err := filepath.WalkDir(c.corpusDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".txt") {
			return nil
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			c.logger.Warn().Err(readErr).Str("path", path).Msg("Skipping unreadable corpus file")
			return nil
		}
		texts = append(texts, string(content))
		return nil
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("dir", c.corpusDir).Msg("Corpus scan failed")
	}

	return texts
}
