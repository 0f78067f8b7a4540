// ABOUTME: Similarity search engine ranking movie plots against a query
// ABOUTME: Stable descending sort keeps dataset order for equal scores
package search

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/plotsearch/internal/cache"
	"github.com/harper/plotsearch/internal/embedding"
	"github.com/harper/plotsearch/internal/models"
)

// DefaultTopN is the number of results returned when callers do not choose
const DefaultTopN = 5

// Engine answers queries against one dataset file
type Engine struct {
	manager     *cache.Manager
	datasetPath string
	logger      *log.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger; the default discards output
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine over datasetPath. Queries are embedded with
// the manager's embedder so they are comparable with the cached matrix.
func NewEngine(manager *cache.Manager, datasetPath string, opts ...Option) *Engine {
	e := &Engine{
		manager:     manager,
		datasetPath: datasetPath,
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DatasetPath returns the dataset the engine searches
func (e *Engine) DatasetPath() string {
	return e.datasetPath
}

// Search returns up to topN movies ranked by cosine similarity to query
func (e *Engine) Search(ctx context.Context, query string, topN int) ([]models.SearchResult, error) {
	if topN <= 0 {
		return nil, fmt.Errorf("%w: top_n must be positive, got %d", models.ErrInvalidArgument, topN)
	}

	start := time.Now()
	snap, err := e.manager.Load(ctx, e.datasetPath)
	if err != nil {
		return nil, err
	}
	if len(snap.Movies) == 0 {
		return []models.SearchResult{}, nil
	}

	queryVec, err := embedding.EmbedOne(ctx, e.manager.Embedder(), query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(queryVec) != snap.Matrix.Dim() {
		return nil, fmt.Errorf("%w: query has %d values, dataset embeddings have %d",
			models.ErrDimensionMismatch, len(queryVec), snap.Matrix.Dim())
	}

	results := Rank(snap.Movies, snap.Matrix, queryVec, topN)

	e.logger.Debug("search complete",
		"query", query,
		"top_n", topN,
		"results", len(results),
		"cache_hit", snap.Hit,
		"elapsed", time.Since(start))

	return results, nil
}

// Rank scores every row against queryVec and returns the best topN.
// movies and matrix must be aligned by position.
func Rank(movies []models.Movie, matrix models.Matrix, queryVec []float32, topN int) []models.SearchResult {
	results := make([]models.SearchResult, len(movies))
	for i, m := range movies {
		results[i] = models.SearchResult{
			Index:      i,
			Title:      m.Title,
			Plot:       m.Plot,
			Similarity: CosineSimilarity(queryVec, matrix[i]),
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if len(results) > topN {
		results = results[:topN]
	}
	for i := range results {
		results[i].Rank = i + 1
	}

	return results
}

// Search is a one-shot helper that opens a file cache in cacheDir, runs a
// single query and closes it
func Search(ctx context.Context, query string, topN int, datasetPath, cacheDir string, embedder embedding.Embedder) ([]models.SearchResult, error) {
	manager := cache.NewManager(cache.NewFileStore(cacheDir), embedder)
	defer func() { _ = manager.Close() }()

	return NewEngine(manager, datasetPath).Search(ctx, query, topN)
}
