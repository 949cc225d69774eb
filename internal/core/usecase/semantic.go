package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/vanshm/study-assistant/internal/core/ports"
)

// SemanticRanker scores candidate texts by cosine similarity between the
// query embedding and per-candidate embeddings computed at call time.
// Candidates are raw text snippets, so stored document vectors are not
// reused here.
type SemanticRanker struct {
	embedder ports.Embedder
}

func NewSemanticRanker(embedder ports.Embedder) *SemanticRanker {
	return &SemanticRanker{embedder: embedder}
}

// Rank returns one similarity per candidate, in input order, in [-1, 1].
// An empty candidate set performs no embedding calls.
func (r *SemanticRanker) Rank(ctx context.Context, queryText string, candidates []string) ([]float64, error) {
	if len(candidates) == 0 {
		return []float64{}, nil
	}

	queryVector, err := r.embedder.EmbedQuery(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidateVectors, err := r.embedder.Embed(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("embed candidates: %w", err)
	}
	if len(candidateVectors) != len(candidates) {
		return nil, fmt.Errorf("embedding count mismatch: %d vectors for %d candidates", len(candidateVectors), len(candidates))
	}

	scores := make([]float64, len(candidates))
	for i, vector := range candidateVectors {
		scores[i] = cosineSimilarity(queryVector, vector)
	}
	return scores, nil
}

// cosineSimilarity is dot(a,b)/(|a|*|b|), defined as 0 when either vector is
// all-zero.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
