package model

import "math"

// NormalizeVector L2-normalizes the vector in a new slice. A zero vector is
// returned as a copy without modification to avoid dividing by zero.
func NormalizeVector(vec []float32) []float32 {
	if len(vec) == 0 {
		return nil
	}

	var sumOfSquares float64
	for _, v := range vec {
		sumOfSquares += float64(v) * float64(v)
	}

	out := make([]float32, len(vec))
	magnitude := math.Sqrt(sumOfSquares)
	if magnitude == 0 {
		copy(out, vec)
		return out
	}

	for i, v := range vec {
		out[i] = float32(float64(v) / magnitude)
	}
	return out
}

// TruncateVector cuts the vector down to at most dim components. The input
// is returned as-is when it already fits.
func TruncateVector(vec []float32, dim int) []float32 {
	if len(vec) <= dim {
		return vec
	}
	return vec[:dim]
}

// CosineSimilarity computes the cosine similarity of two vectors. It
// returns 0 for mismatched lengths or zero-norm inputs.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

// DotProduct computes the dot product of two vectors, the native distance
// measure of the store for unit-norm vectors.
func DotProduct(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}
