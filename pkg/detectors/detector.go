// Package detectors provides unsupervised anomaly detection algorithms.
package detectors

// Detector is the common interface for all anomaly detection algorithms.
type Detector interface {
	// Fit trains the detector on historical data.
	// data is a 2D slice where each row is a sample and each column is a feature.
	Fit(data [][]float64) error

	// ScoreSamples returns raw scores for the given samples in the
	// detector's native sign convention: higher values indicate more
	// normal samples. Callers wanting "higher = more anomalous" negate.
	ScoreSamples(data [][]float64) ([]float64, error)

	// Save serializes the trained model to bytes.
	Save() ([]byte, error)

	// Load deserializes a trained model from bytes.
	Load(data []byte) error
}
