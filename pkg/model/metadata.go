// Package model manages persisted model metadata snapshots.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hed1ad/fingerml/pkg/stats"
)

// ErrMetadataNotFound is returned by Load when no metadata file exists at
// the given path. Statistics-update mode requires a prior training run to
// have created one.
var ErrMetadataNotFound = errors.New("model: metadata not found")

// Metadata describes a trained model artifact. It is written next to the
// artifact on export and updated in place by statistics-update runs.
type Metadata struct {
	ModelType           string                  `json:"model_type"`
	TrainedAt           time.Time               `json:"trained_at"`
	InputDims           int                     `json:"input_dims"`
	NEstimators         int                     `json:"n_estimators"`
	Contamination       float64                 `json:"contamination"`
	TrainingSamples     int                     `json:"training_samples"`
	ScoreStats          stats.ScoreDistribution `json:"score_stats"`
	ThresholdSuggestion float64                 `json:"threshold_suggestion"`
	MeanVector          []float64               `json:"mean_vector,omitempty"`
	StdVector           []float64               `json:"std_vector,omitempty"`
}

// Load reads a metadata snapshot from path. It returns ErrMetadataNotFound
// when the file does not exist.
func Load(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Metadata{}, fmt.Errorf("%w: %s", ErrMetadataNotFound, path)
	}
	if err != nil {
		return Metadata{}, fmt.Errorf("read metadata: %w", err)
	}

	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return Metadata{}, fmt.Errorf("parse metadata %s: %w", path, err)
	}
	return m, nil
}

// Save writes the snapshot to path atomically: the JSON is staged in a
// temporary sibling file and renamed into place, so concurrent readers
// observe either the previous snapshot or the full new one.
func (m Metadata) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".metadata-*")
	if err != nil {
		return fmt.Errorf("stage metadata: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write metadata: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace metadata: %w", err)
	}
	return nil
}

// WithNormalization returns a copy of the snapshot with only the mean and
// std vectors replaced. Every other field is carried over unchanged.
func (m Metadata) WithNormalization(ns stats.Normalization) Metadata {
	m.MeanVector = ns.Mean
	m.StdVector = ns.Std
	return m
}

// SiblingPath derives the metadata path for a model artifact by replacing
// the artifact's extension with .json.
func SiblingPath(modelPath string) string {
	return strings.TrimSuffix(modelPath, filepath.Ext(modelPath)) + ".json"
}
