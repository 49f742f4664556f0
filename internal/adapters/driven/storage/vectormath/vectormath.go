// Package vectormath holds the similarity search shared by the in-process
// vector stores.
package vectormath

import (
	"math"
	"sort"

	"github.com/custodia-labs/pdfqa/internal/core/domain"
)

// Cosine returns the cosine similarity of a and b.
// Vectors of different length or with zero magnitude score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// TopK scores every entry against query and returns the best k, highest
// first. Ties keep insertion order.
func TopK(entries []domain.IndexEntry, query []float32, k int) []domain.RetrievedChunk {
	if k <= 0 || len(entries) == 0 {
		return []domain.RetrievedChunk{}
	}

	results := make([]domain.RetrievedChunk, len(entries))
	for i, e := range entries {
		results[i] = domain.RetrievedChunk{Chunk: e.Chunk, Score: Cosine(e.Embedding, query)}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k < len(results) {
		results = results[:k]
	}
	return results
}
