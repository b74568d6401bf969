package pipeline

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hed1ad/fingerml/pkg/config"
	"github.com/hed1ad/fingerml/pkg/detectors"
	"github.com/hed1ad/fingerml/pkg/detectors/iforest"
)

// MinTrainingSamples is the usability floor: a dataset smaller than this
// cannot produce a meaningful model.
const MinTrainingSamples = 100

// ErrInsufficientData is returned when the loaded dataset is below the
// usability floor. The run aborts; no model is produced.
var ErrInsufficientData = errors.New("pipeline: insufficient training data")

// TrainModel fits an isolation forest on the dataset using the configured
// ensemble size, contamination, and seed.
func TrainModel(data [][]float64, cfg config.Config, log *zap.Logger) (detectors.Detector, error) {
	if len(data) < MinTrainingSamples {
		return nil, fmt.Errorf("%w: got %d samples, need at least %d",
			ErrInsufficientData, len(data), MinTrainingSamples)
	}

	log.Info("training isolation forest",
		zap.Int("samples", len(data)),
		zap.Int("n_estimators", cfg.NEstimators),
		zap.Float64("contamination", cfg.Contamination))

	det := iforest.New(
		iforest.WithTrees(cfg.NEstimators),
		iforest.WithContamination(cfg.Contamination),
		iforest.WithSeed(cfg.Seed),
	)
	if err := det.Fit(data); err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}

	return det, nil
}
