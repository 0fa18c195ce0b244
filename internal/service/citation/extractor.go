package citation

import (
	"regexp"
	"strings"

	"github.com/docudetect/docu-detect/pkg/utils"
)

const (
	maxReferences   = 50
	maxTitleLength  = 160
	minCleanedTitle = 5
)

var (
	refHeaderPattern = regexp.MustCompile(`(?i)\breferences\b`)
	refLinePattern   = regexp.MustCompile(`^\s*(\[\d+\]|\d+\.)?\s*(.+)$`)

	quotedPattern    = regexp.MustCompile(`"([^"]+)"`)
	noisePattern     = regexp.MustCompile(`(?i)\(\d{4}\)|\d{4}|IEEE|Elsevier|Springer|ACM|arXiv.*`)
	bracketedPattern = regexp.MustCompile(`\[[^\]]+\]`)
	punctRunPattern  = regexp.MustCompile(`[.,;]+`)
	multiSpacePattern = regexp.MustCompile(`\s{2,}`)
)

// ExtractReferences scrapes the lines following a "References" section
// header. Scanning stops at the first blank line once at least four entries
// have been collected, and the result is capped at 50 entries. Without a
// header the result is empty.
func ExtractReferences(fullText string) []string {
	var refs []string
	started := false

	for _, line := range strings.Split(fullText, "\n") {
		if !started {
			if refHeaderPattern.MatchString(line) {
				started = true
			}
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" && len(refs) > 3 {
			break
		}

		m := refLinePattern.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		if entry := strings.TrimSpace(m[2]); entry != "" {
			refs = append(refs, entry)
		}
	}

	if len(refs) > maxReferences {
		refs = refs[:maxReferences]
	}
	return refs
}

// CleanTitle reduces a raw reference line to a searchable title candidate. A
// double-quoted substring wins verbatim; otherwise years, publisher names,
// arXiv identifiers and bracketed fragments are stripped and punctuation
// collapsed. Results shorter than five characters yield the raw line back.
func CleanTitle(rawLine string) string {
	if m := quotedPattern.FindStringSubmatch(rawLine); m != nil {
		return m[1]
	}

	cleaned := noisePattern.ReplaceAllString(rawLine, "")
	cleaned = bracketedPattern.ReplaceAllString(cleaned, "")
	cleaned = punctRunPattern.ReplaceAllString(cleaned, " ")
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if len([]rune(cleaned)) >= minCleanedTitle {
		return utils.TruncateRunes(cleaned, maxTitleLength)
	}
	return rawLine
}
