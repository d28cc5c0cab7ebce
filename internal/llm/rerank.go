package llm

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// RankedCandidate is one rerank result, highest score first.
type RankedCandidate struct {
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Rerank orders candidates by cosine similarity of their embeddings to
// the query embedding. Query and candidates go through one batch call.
func Rerank(ctx context.Context, embedder Embedder, query string, candidates []string) ([]RankedCandidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	texts := append([]string{query}, candidates...)
	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}

	queryVec := vectors[0]
	ranked := make([]RankedCandidate, len(candidates))
	for i, text := range candidates {
		score, err := cosineSimilarity(queryVec, vectors[i+1])
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		ranked[i] = RankedCandidate{Index: i, Text: text, Score: score}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, nil
}

func cosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector length mismatch: %d vs %d", len(a), len(b))
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
