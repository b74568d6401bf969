package pipeline

import (
	"fmt"

	"github.com/hed1ad/fingerml/pkg/detectors"
	"github.com/hed1ad/fingerml/pkg/stats"
)

// Calibrate scores every vector in the dataset and summarizes the score
// distribution. The detector's raw scores follow its native convention,
// higher = more normal; they are negated here so that higher means more
// anomalous, the canonical direction used everywhere downstream.
func Calibrate(det detectors.Detector, data [][]float64) (stats.ScoreDistribution, error) {
	raw, err := det.ScoreSamples(data)
	if err != nil {
		return stats.ScoreDistribution{}, fmt.Errorf("score: %w", err)
	}

	scores := make([]float64, len(raw))
	for i, s := range raw {
		scores[i] = -s
	}

	return stats.Describe(scores)
}
