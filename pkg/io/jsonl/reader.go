// Package jsonl provides line-delimited JSON reading for fingerprint records.
package jsonl

import (
	"bufio"
	"errors"
	"os"

	"github.com/buger/jsonparser"

	"github.com/hed1ad/fingerml/pkg/fingerprint"
)

// Reader reads fingerprint records from JSONL files. Each line is a JSON
// object whose "vectors" field holds an ordered sequence of numeric
// sub-vectors. Malformed or empty records are skipped; they still count
// against the examined-record cap.
type Reader struct {
	file       *os.File
	scanner    *bufio.Scanner
	maxSamples int
	targetDim  int
}

// Option configures a JSONL reader.
type Option func(*Reader)

// WithMaxSamples caps the number of records examined (not kept).
func WithMaxSamples(n int) Option {
	return func(r *Reader) {
		r.maxSamples = n
	}
}

// WithTargetDim sets the output vector dimensionality.
func WithTargetDim(d int) Option {
	return func(r *Reader) {
		r.targetDim = d
	}
}

// NewReader creates a new JSONL fingerprint reader.
func NewReader(filename string, opts ...Option) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	r := &Reader{
		file:       file,
		scanner:    scanner,
		maxSamples: 50000,
		targetDim:  fingerprint.TargetDim,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// Read returns all accepted fingerprints as fixed-dimension vectors, in
// input order. It examines at most maxSamples lines and silently skips
// any that fail to parse or carry no vector data, so the result may be
// smaller than the number of lines examined.
func (r *Reader) Read() ([][]float64, error) {
	var data [][]float64

	for i := 0; i < r.maxSamples && r.scanner.Scan(); i++ {
		raw, err := parseRecord(r.scanner.Bytes())
		if err != nil {
			continue // Skip malformed records
		}

		vec, err := fingerprint.Vectorize(raw, r.targetDim)
		if err != nil {
			continue
		}
		data = append(data, vec)
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// Close releases resources.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// parseRecord extracts the "vectors" field from one JSON record. A bare
// number at the top level of the field is treated as a one-element
// sub-vector.
func parseRecord(line []byte) ([][]float64, error) {
	var vectors [][]float64
	var badValue bool

	_, err := jsonparser.ArrayEach(line, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		switch dataType {
		case jsonparser.Number:
			f, perr := jsonparser.ParseFloat(value)
			if perr != nil {
				badValue = true
				return
			}
			vectors = append(vectors, []float64{f})
		case jsonparser.Array:
			sub, perr := parseSubVector(value)
			if perr != nil {
				badValue = true
				return
			}
			vectors = append(vectors, sub)
		default:
			badValue = true
		}
	}, "vectors")
	if err != nil {
		return nil, err
	}
	if badValue {
		return nil, errors.New("jsonl: non-numeric vector content")
	}

	return vectors, nil
}

func parseSubVector(value []byte) ([]float64, error) {
	var sub []float64
	var badValue bool

	_, err := jsonparser.ArrayEach(value, func(elem []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if dataType != jsonparser.Number {
			badValue = true
			return
		}
		f, perr := jsonparser.ParseFloat(elem)
		if perr != nil {
			badValue = true
			return
		}
		sub = append(sub, f)
	})
	if err != nil {
		return nil, err
	}
	if badValue {
		return nil, errors.New("jsonl: non-numeric vector content")
	}

	return sub, nil
}
