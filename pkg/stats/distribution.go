package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ScoreDistribution summarizes a sequence of anomaly scores. For any
// non-empty input, Min <= P50 <= P90 <= P95 <= P99 <= Max.
type ScoreDistribution struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	P50  float64 `json:"p50"`
	P90  float64 `json:"p90"`
	P95  float64 `json:"p95"`
	P99  float64 `json:"p99"`
}

// Describe computes summary statistics over scores. Std is the population
// standard deviation; percentiles use linear interpolation between
// adjacent ranks.
func Describe(scores []float64) (ScoreDistribution, error) {
	if len(scores) == 0 {
		return ScoreDistribution{}, errors.New("stats: empty score sequence")
	}

	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)

	return ScoreDistribution{
		Mean: stat.Mean(scores, nil),
		Std:  stat.PopStdDev(scores, nil),
		Min:  floats.Min(sorted),
		Max:  floats.Max(sorted),
		P50:  Percentile(sorted, 50),
		P90:  Percentile(sorted, 90),
		P95:  Percentile(sorted, 95),
		P99:  Percentile(sorted, 99),
	}, nil
}

// Percentile returns the p-th percentile (0..100) of an ascending-sorted
// sequence, linearly interpolated between adjacent ranks.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (rank-float64(lo))*(sorted[hi]-sorted[lo])
}
