// Package pipeline orchestrates fingerprint loading, model training,
// threshold calibration, and artifact export.
package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/hed1ad/fingerml/pkg/config"
	fpio "github.com/hed1ad/fingerml/pkg/io"
	"github.com/hed1ad/fingerml/pkg/io/jsonl"
	"github.com/hed1ad/fingerml/pkg/model"
	"github.com/hed1ad/fingerml/pkg/stats"
)

// OpenSource opens the configured fingerprint source.
func OpenSource(cfg config.Config) (fpio.Reader, error) {
	r, err := jsonl.NewReader(cfg.InputPath,
		jsonl.WithMaxSamples(cfg.MaxSamples),
		jsonl.WithTargetDim(cfg.TargetDim),
	)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return r, nil
}

// Train runs the full training pipeline: load fingerprints, fit the
// model, calibrate the score threshold, export model and metadata.
// Stages run strictly in sequence and any failure aborts the run.
// It returns the written model and metadata paths.
func Train(cfg config.Config, log *zap.Logger) (string, string, error) {
	data, err := loadDataset(cfg)
	if err != nil {
		return "", "", err
	}
	log.Info("loaded fingerprints",
		zap.Int("count", len(data)),
		zap.String("input", cfg.InputPath))

	det, err := TrainModel(data, cfg, log)
	if err != nil {
		return "", "", err
	}

	dist, err := Calibrate(det, data)
	if err != nil {
		return "", "", err
	}
	log.Info("calibrated score distribution",
		zap.Float64("mean", dist.Mean),
		zap.Float64("p95", dist.P95),
		zap.Float64("p99", dist.P99))

	meta := model.Metadata{
		ModelType:       "IsolationForest",
		TrainedAt:       time.Now().UTC(),
		InputDims:       cfg.TargetDim,
		NEstimators:     cfg.NEstimators,
		Contamination:   cfg.Contamination,
		TrainingSamples: len(data),
		ScoreStats:      dist,
		// p95 marks the top 5% most anomalous training inputs as the
		// operating boundary. A policy constant, not a learned value.
		ThresholdSuggestion: dist.P95,
	}

	modelPath, metaPath, err := Export(det, meta, cfg.OutputPath)
	if err != nil {
		return "", "", err
	}
	log.Info("exported model",
		zap.String("model", modelPath),
		zap.String("metadata", metaPath))

	return modelPath, metaPath, nil
}

// UpdateStats runs the statistics-update pipeline: load fingerprints,
// compute per-dimension normalization statistics, and merge them into the
// existing metadata snapshot. The metadata file must already exist from a
// prior training run; only mean_vector and std_vector are replaced.
func UpdateStats(cfg config.Config, log *zap.Logger) error {
	data, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	log.Info("loaded fingerprints",
		zap.Int("count", len(data)),
		zap.String("input", cfg.InputPath))

	ns, err := stats.ComputeNormalization(data)
	if err != nil {
		return err
	}

	metaPath := cfg.MetadataPath
	if metaPath == "" {
		metaPath = model.SiblingPath(cfg.OutputPath)
	}

	meta, err := model.Load(metaPath)
	if err != nil {
		return err
	}
	if err := meta.WithNormalization(ns).Save(metaPath); err != nil {
		return err
	}

	log.Info("updated normalization stats",
		zap.String("metadata", metaPath),
		zap.Float64("mean_min", floats.Min(ns.Mean)),
		zap.Float64("mean_max", floats.Max(ns.Mean)),
		zap.Float64("std_min", floats.Min(ns.Std)),
		zap.Float64("std_max", floats.Max(ns.Std)))

	return nil
}

func loadDataset(cfg config.Config) ([][]float64, error) {
	src, err := OpenSource(cfg)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := src.Read()
	if err != nil {
		return nil, fmt.Errorf("load fingerprints: %w", err)
	}
	return data, nil
}
