package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hed1ad/fingerml/pkg/stats"
)

func sampleMetadata() Metadata {
	return Metadata{
		ModelType:       "IsolationForest",
		TrainedAt:       time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		InputDims:       96,
		NEstimators:     100,
		Contamination:   0.05,
		TrainingSamples: 12345,
		ScoreStats: stats.ScoreDistribution{
			Mean: 0.41, Std: 0.03, Min: 0.35, Max: 0.72,
			P50: 0.40, P90: 0.46, P95: 0.48, P99: 0.55,
		},
		ThresholdSuggestion: 0.48,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isolation_forest.json")

	meta := sampleMetadata()
	require.NoError(t, meta.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, meta, loaded)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrMetadataNotFound)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMetadataNotFound)
}

func TestWithNormalizationPreservesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isolation_forest.json")

	before := sampleMetadata()
	require.NoError(t, before.Save(path))

	ns := stats.Normalization{
		Mean: []float64{1, 2, 3},
		Std:  []float64{0.1, 0.2, 0.3},
	}

	loaded, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, loaded.WithNormalization(ns).Save(path))

	after, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ns.Mean, after.MeanVector)
	assert.Equal(t, ns.Std, after.StdVector)

	// Everything else is untouched by the merge.
	after.MeanVector = nil
	after.StdVector = nil
	assert.Equal(t, before, after)
}

func TestSaveReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "isolation_forest.json")

	first := sampleMetadata()
	require.NoError(t, first.Save(path))

	second := first
	second.TrainingSamples = 999
	require.NoError(t, second.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 999, loaded.TrainingSamples)

	// No stale staging files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSiblingPath(t *testing.T) {
	tests := []struct {
		name      string
		modelPath string
		want      string
	}{
		{name: "bin extension", modelPath: "models/isolation_forest.bin", want: "models/isolation_forest.json"},
		{name: "gob extension", modelPath: "out/model.gob", want: "out/model.json"},
		{name: "no extension", modelPath: "out/model", want: "out/model.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SiblingPath(tt.modelPath))
		})
	}
}
