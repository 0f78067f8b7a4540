// ABOUTME: Tests for the hashing embedder
// ABOUTME: Verifies determinism, normalization and tokenization

package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashEmbedder_Deterministic(t *testing.T) {
	e := NewHashEmbedder(64)

	a, err := e.Embed(context.Background(), []string{"A spy in Paris", "A spy in Paris"})
	require.NoError(t, err)
	require.Len(t, a, 2)
	assert.Equal(t, a[0], a[1])
	assert.Len(t, a[0], 64)
}

func TestHashEmbedder_NormalizedNonNegative(t *testing.T) {
	e := NewHashEmbedder(128)

	vecs, err := e.Embed(context.Background(), []string{"A high-octane chase through New York with explosions."})
	require.NoError(t, err)

	var sum float64
	for _, v := range vecs[0] {
		assert.GreaterOrEqual(t, v, float32(0))
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-5)
}

func TestHashEmbedder_EmptyTextIsZeroVector(t *testing.T) {
	e := NewHashEmbedder(16)

	vec, err := EmbedOne(context.Background(), e, "")
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 16), vec)

	vec, err = EmbedOne(context.Background(), e, "the of and")
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 16), vec)
}

func TestHashEmbedder_ModelIDIncludesDimension(t *testing.T) {
	assert.Equal(t, "hash/v1/64", NewHashEmbedder(64).ModelID())
	assert.Equal(t, "hash/v1/1024", NewHashEmbedder(0).ModelID())
	assert.NotEqual(t, NewHashEmbedder(64).ModelID(), NewHashEmbedder(128).ModelID())
}

func TestHashEmbedder_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHashEmbedder(8).Embed(ctx, []string{"x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t,
		[]string{"spy", "navigates", "intrigue", "paris", "stop", "terrorist", "plot"},
		Tokenize("A spy navigates intrigue in Paris to stop a terrorist plot."))
	assert.Equal(t, []string{"high", "octane", "chase"}, Tokenize("High-octane CHASE!"))
	assert.Empty(t, Tokenize("   "))
}
