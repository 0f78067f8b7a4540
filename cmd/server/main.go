// ABOUTME: Main entry point for the plotsearch MCP server with stdio transport
// ABOUTME: Initializes config, embedding cache and search engine, then serves tools
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/plotsearch/internal/cache"
	"github.com/harper/plotsearch/internal/config"
	"github.com/harper/plotsearch/internal/embedding"
	"github.com/harper/plotsearch/internal/mcp"
	"github.com/harper/plotsearch/internal/search"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// stdout carries the protocol, so logs go to stderr
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "plotsearch-server",
	})

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file found", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	embedder, err := embedding.New(cfg)
	if err != nil {
		logger.Fatal("failed to initialize embedder", "err", err)
	}

	store, err := cache.OpenStore(cfg.CacheBackend, cfg.CacheDir)
	if err != nil {
		logger.Fatal("failed to open embedding cache", "err", err)
	}

	manager := cache.NewManager(store, embedder, cache.WithLogger(logger))
	defer func() { _ = manager.Close() }()

	engine := search.NewEngine(manager, cfg.Dataset, search.WithLogger(logger))

	server := mcp.NewServer(version, engine, manager)

	logger.Info("MCP server starting on stdio",
		"version", version, "commit", commit, "date", date,
		"dataset", cfg.Dataset, "model", embedder.ModelID())
	if err := mcpserver.ServeStdio(server); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
