package analyzer

import (
	"math"
	"regexp"
	"strings"
)

// Terms of at least two word characters, matching the usual vectorizer
// tokenization for English prose.
var termPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// maxDocFreqRatio drops terms present in more than this share of documents.
const maxDocFreqRatio = 0.9

func tokenize(text string) []string {
	tokens := termPattern.FindAllString(strings.ToLower(text), -1)
	out := tokens[:0]
	for _, tok := range tokens {
		if _, stop := englishStopWords[tok]; stop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// tfidfVectors vectorizes the documents jointly: the vocabulary is built from
// all of them, terms whose document frequency exceeds maxDocFreqRatio are
// excluded, weights are smoothed-idf scaled term frequencies, L2-normalized.
func tfidfVectors(docs []string) []map[string]float64 {
	n := len(docs)
	tokenized := make([][]string, n)
	docFreq := make(map[string]int)
	for i, doc := range docs {
		tokenized[i] = tokenize(doc)
		seen := make(map[string]struct{})
		for _, tok := range tokenized[i] {
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				docFreq[tok]++
			}
		}
	}

	maxDF := maxDocFreqRatio * float64(n)

	idf := make(map[string]float64, len(docFreq))
	for term, df := range docFreq {
		if float64(df) > maxDF {
			continue
		}
		idf[term] = math.Log(float64(1+n)/float64(1+df)) + 1
	}
	if len(idf) == 0 {
		// Pruning may wipe the whole vocabulary for tiny or homogeneous
		// corpora (with two documents every shared term sits above the
		// cutoff). Scoring must still work, so keep all terms.
		for term, df := range docFreq {
			idf[term] = math.Log(float64(1+n)/float64(1+df)) + 1
		}
	}

	vectors := make([]map[string]float64, n)
	for i, tokens := range tokenized {
		vec := make(map[string]float64)
		for _, tok := range tokens {
			if _, ok := idf[tok]; ok {
				vec[tok]++
			}
		}
		var norm float64
		for term := range vec {
			vec[term] *= idf[term]
			norm += vec[term] * vec[term]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for term := range vec {
				vec[term] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}

// cosine of two L2-normalized sparse vectors.
func cosine(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, w := range a {
		dot += w * b[term]
	}
	return dot
}
