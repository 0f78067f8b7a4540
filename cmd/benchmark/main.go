// ABOUTME: Command-line runner for retrieval quality benchmarks
// ABOUTME: Runs query scenarios through the search engine and outputs JSON results

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/harper/plotsearch/benchmarks/retrieval"
	"github.com/harper/plotsearch/internal/config"
	"github.com/harper/plotsearch/internal/embedding"
)

func main() {
	scenarioID := flag.String("scenario", "", "Run a specific scenario by ID. If empty, runs all scenarios.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	datasetPath := flag.String("dataset", "", "Dataset CSV to search (default: built-in corpus)")
	cacheDir := flag.String("cache-dir", "", "Embedding cache directory (default: temporary)")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}

	embedder, err := embedding.New(cfg)
	if err != nil {
		logger.Fatal("failed to initialize embedder", "err", err)
	}

	fmt.Println("========================================")
	fmt.Println("plotsearch retrieval benchmarks")
	fmt.Printf("model: %s\n", embedder.ModelID())
	fmt.Println("========================================")

	runner, err := retrieval.NewBenchmarkRunner(*datasetPath, *cacheDir, embedder, logger)
	if err != nil {
		logger.Fatal("failed to create benchmark runner", "err", err)
	}
	defer runner.Close()

	ctx := context.Background()
	var results []retrieval.Result

	if *scenarioID == "" {
		results, err = runner.RunAllScenarios(ctx)
		if err != nil {
			logger.Fatal("benchmark failed", "err", err)
		}
	} else {
		scenario, ok := retrieval.GetScenario(*scenarioID)
		if !ok {
			logger.Fatal("unknown scenario", "id", *scenarioID)
		}
		result, err := runner.RunScenario(ctx, scenario)
		if err != nil {
			logger.Fatal("scenario failed", "err", err)
		}
		results = []retrieval.Result{result}
	}

	summary := runner.Summarize(results)
	for _, result := range results {
		fmt.Printf("\n%s: %s\n", result.ScenarioID, result.ScenarioName)
		fmt.Printf("  Query: %q\n", result.Query)
		fmt.Printf("  Retrieved: %v\n", result.Retrieved)
		fmt.Printf("  Recall@K: %.2f  RR: %.2f\n", result.RecallAtK, result.ReciprocalRank)
		fmt.Printf("  Status: %s\n", result.Status)
	}

	fmt.Println("\n========================================")
	fmt.Printf("Total: %d  Passed: %d  Failed: %d  MRR: %.3f\n",
		summary.Total, summary.Passed, summary.Failed, summary.MeanRR)
	fmt.Println("========================================")

	if err := runner.ExportResults(results, *outputPath); err != nil {
		logger.Fatal("failed to export results", "err", err)
	}
	fmt.Printf("Results exported to: %s\n", *outputPath)

	if summary.Failed > 0 {
		runner.Close()
		os.Exit(1)
	}
}
