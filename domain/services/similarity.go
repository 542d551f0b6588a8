package services

import (
	"math"

	"polymath-backend/pkg/errors"
)

// CosineSimilarity computes the cosine similarity between two embedding
// vectors. The result is in [-1, 1], where 1 means identical direction.
// Vectors of unequal length fail with a dimension mismatch; callers in the
// ranking path treat that as "no vector score available".
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.NewDimensionMismatchError(len(a), len(b))
	}
	if len(a) == 0 {
		return 0, nil
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
