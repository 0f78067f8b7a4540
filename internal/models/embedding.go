// ABOUTME: Embedding matrix and dataset fingerprint models
// ABOUTME: Matrix rows align positionally with dataset rows
package models

import (
	"fmt"
	"math"
	"strings"
)

// Matrix holds one embedding vector per dataset row, in dataset order
type Matrix [][]float32

// Rows returns the number of vectors
func (m Matrix) Rows() int {
	return len(m)
}

// Dim returns the vector width, or 0 for an empty matrix
func (m Matrix) Dim() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Validate checks that the matrix has exactly rows vectors of one non-zero
// width and that every value is finite
func (m Matrix) Validate(rows int) error {
	if len(m) != rows {
		return fmt.Errorf("%w: %d vectors for %d rows", ErrDimensionMismatch, len(m), rows)
	}
	if len(m) == 0 {
		return nil
	}
	dim := len(m[0])
	if dim == 0 {
		return fmt.Errorf("%w: empty vector at row 0", ErrDimensionMismatch)
	}
	for i, v := range m {
		if len(v) != dim {
			return fmt.Errorf("%w: row %d has %d values, expected %d", ErrDimensionMismatch, i, len(v), dim)
		}
		if j := NonFiniteIndex(v); j >= 0 {
			return fmt.Errorf("%w: row %d value %d is %v", ErrNonFiniteEmbedding, i, j, v[j])
		}
	}
	return nil
}

// NonFiniteIndex returns the position of the first NaN or Inf in v, or -1
func NonFiniteIndex(v []float32) int {
	for i, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return i
		}
	}
	return -1
}

// Fingerprint identifies the inputs an embedding matrix was computed from:
// the raw dataset bytes and the model that embedded them
type Fingerprint struct {
	Dataset string `json:"dataset" yaml:"dataset"` // hex sha256 of the dataset file
	Model   string `json:"model" yaml:"model"`
}

// String renders the fingerprint as stored on disk
func (f Fingerprint) String() string {
	return fmt.Sprintf("sha256:%s|model:%s", f.Dataset, f.Model)
}

// IsZero reports whether the fingerprint is unset
func (f Fingerprint) IsZero() bool {
	return f.Dataset == "" && f.Model == ""
}

// ParseFingerprint parses the String form
func ParseFingerprint(s string) (Fingerprint, error) {
	s = strings.TrimSpace(s)
	hashPart, modelPart, ok := strings.Cut(s, "|")
	if !ok {
		return Fingerprint{}, fmt.Errorf("%w: malformed fingerprint %q", ErrCacheCorrupt, s)
	}
	hash, ok := strings.CutPrefix(hashPart, "sha256:")
	if !ok || hash == "" {
		return Fingerprint{}, fmt.Errorf("%w: malformed dataset hash %q", ErrCacheCorrupt, hashPart)
	}
	model, ok := strings.CutPrefix(modelPart, "model:")
	if !ok {
		return Fingerprint{}, fmt.Errorf("%w: malformed model id %q", ErrCacheCorrupt, modelPart)
	}
	return Fingerprint{Dataset: hash, Model: model}, nil
}
