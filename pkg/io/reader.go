// Package io provides input utilities for fingerprint ingestion.
package io

// Reader is the interface for reading fingerprint datasets from various
// sources.
type Reader interface {
	// Read returns the complete dataset.
	// Each row is one fixed-dimension feature vector.
	Read() ([][]float64, error)

	// Close releases resources.
	Close() error
}
