// Package fingerprint converts variable-shaped fingerprint records into
// fixed-dimension feature vectors.
package fingerprint

import "errors"

// TargetDim is the default fingerprint dimensionality.
const TargetDim = 96

// ErrEmptyFingerprint is returned when a record carries no vector data.
// Callers skip such records; no feature vector is produced.
var ErrEmptyFingerprint = errors.New("fingerprint: empty vector set")

// Vectorize flattens the sub-vectors of a record, in order, into a single
// vector of exactly dim elements. Shorter inputs are right-padded with
// zeros; longer inputs are truncated to the first dim elements. The
// truncation is a deterministic policy, not a best-effort heuristic.
//
// Vectorize is idempotent: an input that already flattens to dim elements
// is returned unchanged.
func Vectorize(vectors [][]float64, dim int) ([]float64, error) {
	n := 0
	for _, v := range vectors {
		n += len(v)
	}
	if n == 0 {
		return nil, ErrEmptyFingerprint
	}

	flat := make([]float64, 0, max(n, dim))
	for _, v := range vectors {
		flat = append(flat, v...)
	}

	switch {
	case n < dim:
		return append(flat, make([]float64, dim-n)...), nil
	case n > dim:
		return flat[:dim], nil
	default:
		return flat, nil
	}
}
