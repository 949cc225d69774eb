package usecase

import (
	"math"
	"strings"
	"unicode"
)

// Okapi BM25 over the candidate set. Scores are computed per retrieval call;
// the corpus statistics (document frequency, average length) are those of the
// candidate set itself, so the ranking is invariant to document order and
// needs no persistent index.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// rankLexical returns one BM25 score per text, in input order. Texts with no
// overlapping terms score exactly zero; an empty candidate set yields an
// empty slice.
func rankLexical(queryText string, texts []string) []float64 {
	scores := make([]float64, len(texts))
	if len(texts) == 0 {
		return scores
	}

	queryTerms := tokenizeAlphaNum(queryText)
	if len(queryTerms) == 0 {
		return scores
	}

	docTerms := make([]map[string]int, len(texts))
	totalLen := 0
	for i, text := range texts {
		tokens := tokenizeAlphaNum(text)
		totalLen += len(tokens)
		freq := make(map[string]int, len(tokens))
		for _, token := range tokens {
			freq[token]++
		}
		docTerms[i] = freq
	}
	avgDocLen := float64(totalLen) / float64(len(texts))

	docFreq := make(map[string]int, len(queryTerms))
	for _, term := range queryTerms {
		if _, seen := docFreq[term]; seen {
			continue
		}
		n := 0
		for _, freq := range docTerms {
			if freq[term] > 0 {
				n++
			}
		}
		docFreq[term] = n
	}

	corpusSize := float64(len(texts))
	for i, freq := range docTerms {
		docLen := float64(0)
		for _, tf := range freq {
			docLen += float64(tf)
		}

		var score float64
		for _, term := range queryTerms {
			tf := float64(freq[term])
			if tf == 0 {
				continue
			}
			n := float64(docFreq[term])
			idf := math.Log(1 + (corpusSize-n+0.5)/(n+0.5))

			norm := bm25K1 * (1 - bm25B)
			if avgDocLen > 0 {
				norm = bm25K1 * (1 - bm25B + bm25B*docLen/avgDocLen)
			}
			score += idf * tf * (bm25K1 + 1) / (tf + norm)
		}
		scores[i] = score
	}

	return scores
}

func tokenizeAlphaNum(s string) []string {
	if s == "" {
		return nil
	}
	out := make([]string, 0, 24)
	var b strings.Builder
	for _, r := range s {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		if b.Len() > 0 {
			out = append(out, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	return out
}
