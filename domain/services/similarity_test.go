package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polymath-backend/pkg/errors"
)

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	v := []float32{0.3, -1.2, 4.5, 0.01}

	sim, err := CosineSimilarity(v, v)

	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestCosineSimilarity_Symmetric(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-4, 0.5, 2}

	ab, err := CosineSimilarity(a, b)
	require.NoError(t, err)
	ba, err := CosineSimilarity(b, a)
	require.NoError(t, err)

	assert.InDelta(t, ab, ba, 1e-12)
}

func TestCosineSimilarity_OppositeVectors(t *testing.T) {
	a := []float32{1, 0, 2}
	b := []float32{-1, 0, -2}

	sim, err := CosineSimilarity(a, b)

	require.NoError(t, err)
	assert.InDelta(t, -1.0, sim, 1e-9)
}

func TestCosineSimilarity_OrthogonalVectors(t *testing.T) {
	sim, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})

	require.NoError(t, err)
	assert.InDelta(t, 0.0, sim, 1e-12)
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	_, err := CosineSimilarity([]float32{1, 2, 3}, []float32{1, 2})

	require.Error(t, err)
	assert.True(t, errors.IsDimensionMismatch(err))
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	sim, err := CosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3})

	require.NoError(t, err)
	assert.Equal(t, 0.0, sim)
}
