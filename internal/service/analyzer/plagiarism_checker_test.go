package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpusFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestScoreEmptyCorpus(t *testing.T) {
	checker := NewPlagiarismChecker(t.TempDir(), zerolog.Nop())
	assert.Equal(t, 0.0, checker.Score("any text at all"))
}

func TestScoreMissingCorpusDir(t *testing.T) {
	checker := NewPlagiarismChecker(filepath.Join(t.TempDir(), "missing"), zerolog.Nop())
	assert.Equal(t, 0.0, checker.Score("any text at all"))
}

func TestScoreExactDuplicate(t *testing.T) {
	dir := t.TempDir()
	text := "machine learning systems require careful evaluation of training data quality"
	writeCorpusFile(t, dir, "paper.txt", text)

	checker := NewPlagiarismChecker(dir, zerolog.Nop())
	assert.Equal(t, 100.0, checker.Score(text))
}

func TestScoreUnrelatedText(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "cooking.txt", "slowly simmer the onions garlic butter saucepan")

	checker := NewPlagiarismChecker(dir, zerolog.Nop())
	score := checker.Score("quantum entanglement violates classical locality assumptions")
	assert.Equal(t, 0.0, score)
}

func TestScorePartialOverlapBetweenExtremes(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "a.txt", "neural networks learn hierarchical feature representations from raw pixels")
	writeCorpusFile(t, dir, "b.txt", "gradient descent converges under convexity assumptions with small steps")

	checker := NewPlagiarismChecker(dir, zerolog.Nop())
	score := checker.Score("neural networks learn features while gradient descent optimizes weights")

	assert.Greater(t, score, 0.0)
	assert.Less(t, score, 100.0)
}

func TestScorePicksBestCorpusMatch(t *testing.T) {
	dir := t.TempDir()
	target := "distributed consensus protocols tolerate partial network failures gracefully"
	writeCorpusFile(t, dir, "near.txt", target)
	writeCorpusFile(t, dir, "far.txt", "baking bread requires patience flour yeast water salt")

	checker := NewPlagiarismChecker(dir, zerolog.Nop())
	assert.Equal(t, 100.0, checker.Score(target))
}

func TestScoreIgnoresNonTxtFiles(t *testing.T) {
	dir := t.TempDir()
	writeCorpusFile(t, dir, "notes.md", "identical words here exactly")

	checker := NewPlagiarismChecker(dir, zerolog.Nop())
	assert.Equal(t, 0.0, checker.Score("identical words here exactly"))
}

func TestScoreWalksSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "batch1")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	target := "reinforcement learning agents maximize expected cumulative discounted reward"
	writeCorpusFile(t, sub, "nested.txt", target)

	checker := NewPlagiarismChecker(dir, zerolog.Nop())
	assert.Equal(t, 100.0, checker.Score(target))
}

func TestTokenizeDropsShortAndStopTerms(t *testing.T) {
	terms := tokenize("A model of the data is an artifact")
	assert.NotContains(t, terms, "a")
	assert.NotContains(t, terms, "the")
	assert.Contains(t, terms, "model")
	assert.Contains(t, terms, "data")
	assert.Contains(t, terms, "artifact")
}

func TestCosineOrthogonalAndIdentical(t *testing.T) {
	a := map[string]float64{"x": 1}
	b := map[string]float64{"y": 1}
	assert.Equal(t, 0.0, cosine(a, b))

	c := map[string]float64{"x": 0.6, "y": 0.8}
	assert.InDelta(t, 1.0, cosine(c, c), 1e-9)
}
