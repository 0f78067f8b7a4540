// ABOUTME: Error taxonomy shared by the cache manager and search engine
// ABOUTME: Callers match with errors.Is; messages are wrapped with context
package models

import "errors"

var (
	// ErrDatasetNotFound means the dataset file is missing or unreadable
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrInvalidArgument is returned for bad caller input such as top_n <= 0
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCacheCorrupt marks an unreadable or malformed cache artifact.
	// The cache manager recovers from it as a miss.
	ErrCacheCorrupt = errors.New("cache corrupt")

	// ErrDimensionMismatch means vectors and rows disagree in count or width
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNonFiniteEmbedding means a vector holds NaN or Inf
	ErrNonFiniteEmbedding = errors.New("non-finite embedding value")
)
