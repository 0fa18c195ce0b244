package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name", "paper.pdf", "paper.pdf"},
		{"strips directories", "/tmp/uploads/paper.pdf", "paper.pdf"},
		{"strips windows directories", `C:\Users\me\paper.pdf`, "paper.pdf"},
		{"neutralizes traversal", "../../etc/passwd", "passwd"},
		{"replaces spaces and unicode", "my thesis (final).pdf", "my_thesis_final_.pdf"},
		{"empty becomes default", "", "document"},
		{"only unsafe chars becomes default", "???", "document"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 42.3, Round1(42.349))
	assert.Equal(t, 42.4, Round1(42.35))
	assert.Equal(t, 0.0, Round1(0.04))
	assert.Equal(t, 100.0, Round1(99.99))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", TruncateRunes("short", 10))
	assert.Equal(t, "abc", TruncateRunes("abcdef", 3))
	assert.Equal(t, "héll", TruncateRunes("héllo wörld", 4))
}

func TestWrapText(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, WrapText("   ", 10))
	})

	t.Run("fits on one line", func(t *testing.T) {
		assert.Equal(t, []string{"hello world"}, WrapText("hello world", 20))
	})

	t.Run("breaks on word boundaries", func(t *testing.T) {
		lines := WrapText("the quick brown fox jumps over the lazy dog", 15)
		for _, line := range lines {
			assert.LessOrEqual(t, len(line), 15)
		}
		assert.Equal(t, "the quick brown fox jumps over the lazy dog", strings.Join(lines, " "))
	})

	t.Run("hard splits oversized words", func(t *testing.T) {
		lines := WrapText("supercalifragilisticexpialidocious", 10)
		assert.Equal(t, []string{"supercalif", "ragilistic", "expialidoc", "ious"}, lines)
	})
}
