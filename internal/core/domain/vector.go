package domain

import "math"

// CosineSimilarity computes dot(a, b) / (|a|·|b|) in float64.
//
// A non-finite quotient (zero-norm vector, length mismatch producing NaN)
// scores 0 rather than propagating an arithmetic error: a chunk with a
// degenerate embedding is simply never relevant.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0
	}
	return sim
}
