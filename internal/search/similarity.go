// ABOUTME: Cosine similarity over float32 vectors with float64 accumulation
// ABOUTME: Results are clamped to [-1, 1]; zero or non-finite input scores 0
package search

import "math"

// CosineSimilarity calculates cosine similarity between two vectors.
// Mismatched lengths, zero-norm vectors and NaN results return 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dotProduct += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	sim := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) {
		return 0.0
	}
	return math.Max(-1, math.Min(1, sim))
}
