package iforest

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsolationForest(t *testing.T) {
	tests := []struct {
		name       string
		opts       []Option
		wantNTrees int
	}{
		{
			name:       "default configuration",
			opts:       nil,
			wantNTrees: 100,
		},
		{
			name:       "custom trees",
			opts:       []Option{WithTrees(50)},
			wantNTrees: 50,
		},
		{
			name:       "multiple options",
			opts:       []Option{WithTrees(200), WithContamination(0.05), WithSeed(123)},
			wantNTrees: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.opts...)
			assert.Equal(t, tt.wantNTrees, f.nTrees)
		})
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name    string
		data    [][]float64
		wantErr bool
	}{
		{
			name:    "empty data",
			data:    [][]float64{},
			wantErr: true,
		},
		{
			name:    "single sample",
			data:    [][]float64{{1.0, 2.0, 3.0}},
			wantErr: false,
		},
		{
			name:    "normal data",
			data:    generateTestData(100, 5),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(WithTrees(10), WithSeed(42))
			err := f.Fit(tt.data)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.True(t, f.trained)
				assert.Len(t, f.trees, f.nTrees)
			}
		})
	}
}

func TestScoreSamples(t *testing.T) {
	// Train on normal data
	trainData := generateTestData(500, 5)
	f := New(WithTrees(50), WithSampleSize(100), WithSeed(42))
	require.NoError(t, f.Fit(trainData))

	t.Run("scores on normal data", func(t *testing.T) {
		testData := generateTestData(100, 5)
		scores, err := f.ScoreSamples(testData)

		require.NoError(t, err)
		assert.Len(t, scores, len(testData))

		// Native convention: scores in [-1, 0), higher = more normal
		for _, score := range scores {
			assert.GreaterOrEqual(t, score, -1.0)
			assert.Less(t, score, 0.0)
		}
	})

	t.Run("anomalies score lower", func(t *testing.T) {
		// Anomalous data: very different from training
		anomalies := [][]float64{
			{1000, 1000, 1000, 1000, 1000},
			{-500, -500, -500, -500, -500},
		}
		scores, err := f.ScoreSamples(anomalies)

		require.NoError(t, err)
		for _, score := range scores {
			assert.Less(t, score, -0.4, "anomalies should have low raw scores")
		}
	})

	t.Run("score before fit", func(t *testing.T) {
		untrained := New()
		_, err := untrained.ScoreSamples(trainData)
		assert.Error(t, err)
	})
}

func TestFitReproducible(t *testing.T) {
	// Parallel tree construction must not affect the result: two fits
	// with the same seed produce identical forests.
	trainData := generateTestData(300, 4)
	testData := generateTestData(50, 4)

	a := New(WithTrees(40), WithSeed(7))
	require.NoError(t, a.Fit(trainData))
	b := New(WithTrees(40), WithSeed(7))
	require.NoError(t, b.Fit(trainData))

	scoresA, err := a.ScoreSamples(testData)
	require.NoError(t, err)
	scoresB, err := b.ScoreSamples(testData)
	require.NoError(t, err)

	assert.Equal(t, scoresA, scoresB)
}

func TestSaveLoad(t *testing.T) {
	trainData := generateTestData(200, 4)
	original := New(WithTrees(30), WithContamination(0.15), WithSeed(42))
	require.NoError(t, original.Fit(trainData))

	// Get scores before save
	testData := generateTestData(50, 4)
	originalScores, err := original.ScoreSamples(testData)
	require.NoError(t, err)

	// Save
	data, err := original.Save()
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	// Load into new instance
	loaded := New()
	err = loaded.Load(data)
	require.NoError(t, err)

	// Scores should match
	loadedScores, err := loaded.ScoreSamples(testData)
	require.NoError(t, err)

	assert.Equal(t, originalScores, loadedScores)
	assert.Equal(t, original.Threshold(), loaded.Threshold())
}

func TestThreshold(t *testing.T) {
	f := New()
	f.trained = true

	// Test getter
	assert.Equal(t, 0.5, f.Threshold())

	// Test setter
	f.SetThreshold(0.7)
	assert.Equal(t, 0.7, f.Threshold())
}

func BenchmarkFit(b *testing.B) {
	data := generateTestData(10000, 10)
	f := New(WithTrees(100), WithSampleSize(256))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.Fit(data)
	}
}

func BenchmarkScoreSamples(b *testing.B) {
	trainData := generateTestData(5000, 10)
	testData := generateTestData(1000, 10)

	f := New(WithTrees(100), WithSampleSize(256))
	f.Fit(trainData)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.ScoreSamples(testData)
	}
}

func generateTestData(n, features int) [][]float64 {
	data := make([][]float64, n)
	for i := 0; i < n; i++ {
		data[i] = make([]float64, features)
		for j := 0; j < features; j++ {
			data[i][j] = rand.NormFloat64()
		}
	}
	return data
}
