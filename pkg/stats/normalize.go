// Package stats computes normalization and score-distribution statistics
// over fingerprint datasets.
package stats

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

// Normalization holds per-dimension mean and standard deviation vectors
// computed from a single dataset. Both slices share the dataset's
// dimensionality.
type Normalization struct {
	Mean []float64
	Std  []float64
}

// ComputeNormalization computes per-dimension mean and standard deviation
// across all vectors in data. The standard deviation is the population
// form (divisor n, not n-1), so every element of Std is >= 0 and a
// constant dimension yields exactly 0.
func ComputeNormalization(data [][]float64) (Normalization, error) {
	if len(data) == 0 {
		return Normalization{}, errors.New("stats: empty dataset")
	}

	dims := len(data[0])
	ns := Normalization{
		Mean: make([]float64, dims),
		Std:  make([]float64, dims),
	}

	col := make([]float64, len(data))
	for d := 0; d < dims; d++ {
		for i, row := range data {
			col[i] = row[d]
		}
		ns.Mean[d] = stat.Mean(col, nil)
		ns.Std[d] = stat.PopStdDev(col, nil)
	}

	return ns, nil
}
