// ABOUTME: Runner for retrieval benchmarks - executes scenarios and collects results
// ABOUTME: Searches a dataset through the normal cache and engine path

package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/plotsearch/internal/cache"
	"github.com/harper/plotsearch/internal/dataset"
	"github.com/harper/plotsearch/internal/embedding"
	"github.com/harper/plotsearch/internal/search"
)

// BenchmarkRunner executes retrieval benchmark scenarios
type BenchmarkRunner struct {
	manager *cache.Manager
	engine  *search.Engine
	metrics *MetricsCalculator
	logger  *log.Logger
	tempDir string
}

// NewBenchmarkRunner creates a runner. An empty datasetPath uses the
// built-in corpus; an empty cacheDir uses a temporary directory.
func NewBenchmarkRunner(datasetPath, cacheDir string, embedder embedding.Embedder, logger *log.Logger) (*BenchmarkRunner, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r := &BenchmarkRunner{
		metrics: NewMetricsCalculator(),
		logger:  logger,
	}

	if datasetPath == "" || cacheDir == "" {
		dir, err := os.MkdirTemp("", "plotsearch-bench-")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp dir: %w", err)
		}
		r.tempDir = dir
	}

	if datasetPath == "" {
		datasetPath = filepath.Join(r.tempDir, "corpus.csv")
		if err := writeCorpus(datasetPath); err != nil {
			r.Close()
			return nil, err
		}
	}
	if cacheDir == "" {
		cacheDir = filepath.Join(r.tempDir, "cache")
	}

	r.manager = cache.NewManager(cache.NewFileStore(cacheDir), embedder, cache.WithLogger(logger))
	r.engine = search.NewEngine(r.manager, datasetPath, search.WithLogger(logger))
	return r, nil
}

func writeCorpus(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create corpus: %w", err)
	}
	if err := dataset.Write(f, Corpus()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Close cleans up benchmark runner resources
func (r *BenchmarkRunner) Close() {
	if r.manager != nil {
		_ = r.manager.Close()
	}
	if r.tempDir != "" {
		_ = os.RemoveAll(r.tempDir)
	}
}

// RunScenario executes a single scenario
func (r *BenchmarkRunner) RunScenario(ctx context.Context, scenario Scenario) (Result, error) {
	start := time.Now()

	results, err := r.engine.Search(ctx, scenario.Query, scenario.K)
	if err != nil {
		return Result{}, fmt.Errorf("scenario %s: %w", scenario.ID, err)
	}

	retrieved := make([]string, len(results))
	for i, res := range results {
		retrieved[i] = res.Title
	}

	result := r.metrics.EvaluateScenario(scenario, retrieved)
	result.Details["elapsed_ms"] = time.Since(start).Milliseconds()

	r.logger.Debug("scenario complete",
		"id", scenario.ID,
		"status", result.Status,
		"recall", result.RecallAtK,
		"retrieved", retrieved)

	return result, nil
}

// RunAllScenarios executes all built-in scenarios
func (r *BenchmarkRunner) RunAllScenarios(ctx context.Context) ([]Result, error) {
	scenarios := GetAllScenarios()
	results := make([]Result, 0, len(scenarios))

	for _, scenario := range scenarios {
		result, err := r.RunScenario(ctx, scenario)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

// Summary aggregates scenario results
type Summary struct {
	Timestamp string   `json:"timestamp"`
	Model     string   `json:"model"`
	Total     int      `json:"total_scenarios"`
	Passed    int      `json:"passed"`
	Failed    int      `json:"failed"`
	MeanRR    float64  `json:"mean_reciprocal_rank"`
	Results   []Result `json:"results"`
}

// Summarize computes pass counts and mean reciprocal rank
func (r *BenchmarkRunner) Summarize(results []Result) Summary {
	s := Summary{
		Timestamp: time.Now().Format(time.RFC3339),
		Model:     r.manager.Embedder().ModelID(),
		Total:     len(results),
		Results:   results,
	}

	for _, result := range results {
		if result.Status == "PASS" {
			s.Passed++
		} else {
			s.Failed++
		}
		s.MeanRR += result.ReciprocalRank
	}
	if len(results) > 0 {
		s.MeanRR /= float64(len(results))
	}
	return s
}

// ExportResults writes the summary as JSON to outputPath
func (r *BenchmarkRunner) ExportResults(results []Result, outputPath string) error {
	jsonData, err := json.MarshalIndent(r.Summarize(results), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}

	return nil
}
