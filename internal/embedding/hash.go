// ABOUTME: Local deterministic embedder based on feature hashing of words
// ABOUTME: Needs no network or model files; useful offline and in tests
package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultHashDimension is the vector width of the hashing embedder
const DefaultHashDimension = 1024

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"for": {}, "from": {}, "has": {}, "he": {}, "her": {}, "his": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "or": {}, "she": {}, "that": {}, "the": {},
	"their": {}, "they": {}, "this": {}, "to": {}, "was": {}, "were": {}, "with": {},
}

var _ Embedder = (*HashEmbedder)(nil)

// HashEmbedder maps each word to a bucket with FNV-1a and L2-normalizes the
// counts. All components are non-negative, so cosine similarity between two
// of its vectors lies in [0, 1]. Text with no content words embeds to the
// zero vector.
type HashEmbedder struct {
	dimension int
}

// NewHashEmbedder creates a hashing embedder with the given width
func NewHashEmbedder(dimension int) *HashEmbedder {
	if dimension <= 0 {
		dimension = DefaultHashDimension
	}
	return &HashEmbedder{dimension: dimension}
}

// ModelID includes the width, since buckets change with it
func (e *HashEmbedder) ModelID() string {
	return fmt.Sprintf("hash/v1/%d", e.dimension)
}

// Dimension returns the vector width
func (e *HashEmbedder) Dimension() int {
	return e.dimension
}

// Embed embeds each text independently, preserving order
func (e *HashEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *HashEmbedder) vector(text string) []float32 {
	counts := make([]float64, e.dimension)
	for _, token := range Tokenize(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		counts[h.Sum32()%uint32(e.dimension)]++
	}

	var sum float64
	for _, c := range counts {
		sum += c * c
	}
	vec := make([]float32, e.dimension)
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for i, c := range counts {
		vec[i] = float32(c / norm)
	}
	return vec
}

// Tokenize lower-cases text, splits on anything that is not a letter or
// digit, and drops stop words
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if _, stop := stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
