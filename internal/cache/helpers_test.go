// ABOUTME: Shared fakes and fixtures for cache tests
// ABOUTME: Counting embedder, failing store and a three-movie dataset

package cache

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/harper/plotsearch/internal/models"
)

// countingEmbedder returns [len(text), 1] per text and records every call
type countingEmbedder struct {
	mu      sync.Mutex
	model   string
	calls   int
	batches [][]string
	err     error
	short   bool // return one vector fewer than asked
	nan     bool // put a NaN in the first vector
}

func (e *countingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.batches = append(e.batches, append([]string(nil), texts...))
	if e.err != nil {
		return nil, e.err
	}
	n := len(texts)
	if e.short && n > 0 {
		n--
	}
	out := make([][]float32, n)
	for i := 0; i < n; i++ {
		out[i] = []float32{float32(len(texts[i])), 1}
	}
	if e.nan && n > 0 {
		out[0][0] = float32(math.NaN())
	}
	return out, nil
}

func (e *countingEmbedder) ModelID() string {
	if e.model == "" {
		return "test/counting"
	}
	return e.model
}

func (e *countingEmbedder) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// failingStore wraps a store and fails every Save
type failingStore struct {
	Store
}

func (s failingStore) Save(ctx context.Context, rec *Record) error {
	return errors.New("disk full")
}

const threeMovies = `title,plot
Spy Movie,A spy navigates intrigue in Paris to stop a terrorist plot.
Romance in Paris,A couple falls in love in Paris under romantic circumstances.
Action Flick,A high-octane chase through New York with explosions.
`

func writeDataset(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "movies.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func sampleRecord() *Record {
	return &Record{
		Fingerprint: models.Fingerprint{Dataset: "abc", Model: "test/counting"},
		Matrix:      models.Matrix{{1, 2, 3}, {4, 5, 6}},
		BuildID:     "build-1",
	}
}
