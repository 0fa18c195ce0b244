package citation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractReferences(t *testing.T) {
	t.Run("no header yields empty", func(t *testing.T) {
		text := "Introduction\nSome body text\nConclusion"
		assert.Empty(t, ExtractReferences(text))
	})

	t.Run("collects lines after header", func(t *testing.T) {
		text := strings.Join([]string{
			"body text",
			"References",
			"[1] Smith, J. (2020). Deep Learning Basics. IEEE.",
			"[2] Doe, A. (2019). Neural Networks. Springer.",
		}, "\n")

		refs := ExtractReferences(text)
		require.Len(t, refs, 2)
		assert.Equal(t, "Smith, J. (2020). Deep Learning Basics. IEEE.", refs[0])
		assert.Equal(t, "Doe, A. (2019). Neural Networks. Springer.", refs[1])
	})

	t.Run("header match is case insensitive", func(t *testing.T) {
		text := "REFERENCES\n[1] First entry here"
		refs := ExtractReferences(text)
		require.Len(t, refs, 1)
		assert.Equal(t, "First entry here", refs[0])
	})

	t.Run("strips numeric markers", func(t *testing.T) {
		text := strings.Join([]string{
			"References",
			"1. Dotted marker entry",
			"[2] Bracketed marker entry",
			"Plain entry without marker",
		}, "\n")

		refs := ExtractReferences(text)
		require.Len(t, refs, 3)
		assert.Equal(t, "Dotted marker entry", refs[0])
		assert.Equal(t, "Bracketed marker entry", refs[1])
		assert.Equal(t, "Plain entry without marker", refs[2])
	})

	t.Run("blank line terminates once four entries collected", func(t *testing.T) {
		text := strings.Join([]string{
			"References",
			"[1] one entry",
			"",
			"[2] two entry",
			"[3] three entry",
			"[4] four entry",
			"",
			"[5] past the break",
		}, "\n")

		refs := ExtractReferences(text)
		require.Len(t, refs, 4)
		assert.Equal(t, "four entry", refs[3])
	})

	t.Run("caps at fifty entries", func(t *testing.T) {
		lines := []string{"References"}
		for i := 0; i < 80; i++ {
			lines = append(lines, "Some reference entry line")
		}

		refs := ExtractReferences(strings.Join(lines, "\n"))
		assert.Len(t, refs, 50)
	})
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "quoted title wins",
			raw:  `Smith, J. (2020). "Deep Learning Basics". IEEE.`,
			want: "Deep Learning Basics",
		},
		{
			name: "strips year and publisher",
			raw:  "Smith, J. (2020). Deep Learning Basics. IEEE.",
			want: "Smith J Deep Learning Basics",
		},
		{
			name: "strips bracketed fragments",
			raw:  "[Online] Understanding Gradient Descent Methods",
			want: "Understanding Gradient Descent Methods",
		},
		{
			name: "arXiv identifier removed to end of line",
			raw:  "Attention Is All You Need. arXiv:1706.03762",
			want: "Attention Is All You Need",
		},
		{
			name: "short result falls back to raw line",
			raw:  "1999",
			want: "1999",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanTitle(tt.raw))
		})
	}
}

func TestCleanTitleTruncates(t *testing.T) {
	raw := strings.Repeat("word ", 80)
	got := CleanTitle(raw)
	assert.LessOrEqual(t, len([]rune(got)), 160)
}
