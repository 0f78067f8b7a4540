// ABOUTME: Shared setup for commands that search or inspect the cache
// ABOUTME: Builds config, logger, store, manager and engine from flags and env
package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/plotsearch/internal/cache"
	"github.com/harper/plotsearch/internal/config"
	"github.com/harper/plotsearch/internal/embedding"
	"github.com/harper/plotsearch/internal/search"
)

type app struct {
	cfg     *config.Config
	logger  *log.Logger
	manager *cache.Manager
	engine  *search.Engine
}

// loadConfig reads .env, the environment and the global flag overrides
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if datasetFlag != "" {
		cfg.Dataset = datasetFlag
	}
	if cacheDirFlag != "" {
		cfg.CacheDir = cacheDirFlag
	}
	return cfg, nil
}

// newLogger writes to w at the configured level, adjusted by --verbose/--quiet
func newLogger(w io.Writer, cfg *config.Config) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "plotsearch",
	})

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	switch {
	case verbose:
		level = log.DebugLevel
	case quiet:
		level = log.ErrorLevel
	}
	logger.SetLevel(level)
	return logger
}

// openApp wires the components every data command needs. Logs go to stderr
// so stdout stays clean for results and the MCP protocol.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg)

	embedder, err := embedding.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing embedder: %w", err)
	}

	store, err := cache.OpenStore(cfg.CacheBackend, cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}

	logger.Debug("configured",
		"dataset", cfg.Dataset,
		"cache", store.Location(),
		"backend", cfg.CacheBackend,
		"model", embedder.ModelID())

	manager := cache.NewManager(store, embedder, cache.WithLogger(logger))
	engine := search.NewEngine(manager, cfg.Dataset, search.WithLogger(logger))

	return &app{
		cfg:     cfg,
		logger:  logger,
		manager: manager,
		engine:  engine,
	}, nil
}

func (a *app) Close() error {
	return a.manager.Close()
}
