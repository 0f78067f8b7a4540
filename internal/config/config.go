// ABOUTME: Centralized configuration for plot search
// ABOUTME: Loads an optional YAML file, then environment variables, with validation
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Embedder backends
const (
	EmbedderOpenAI = "openai"
	EmbedderHash   = "hash"
)

// Cache backends
const (
	CacheBackendFile   = "file"
	CacheBackendSQLite = "sqlite"
)

// Config holds all configuration for plot search
type Config struct {
	// Data settings
	Dataset      string `yaml:"dataset"`
	CacheDir     string `yaml:"cache_dir"`
	CacheBackend string `yaml:"cache_backend"`
	TopN         int    `yaml:"top_n"`

	// Embedding settings
	Embedder       string        `yaml:"embedder"`
	EmbeddingModel string        `yaml:"embedding_model"`
	HashDimension  int           `yaml:"hash_dimension"`
	BatchSize      int           `yaml:"batch_size"`
	OpenAIKey      string        `yaml:"-"`
	OpenAIBaseURL  string        `yaml:"openai_base_url"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryDelay     time.Duration `yaml:"retry_delay"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in defaults before file and env overrides
func Default() *Config {
	return &Config{
		Dataset:        "movies.csv",
		CacheDir:       DefaultCacheDir(),
		CacheBackend:   CacheBackendFile,
		TopN:           5,
		EmbeddingModel: "text-embedding-3-small",
		HashDimension:  1024,
		BatchSize:      256,
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		RetryDelay:     2 * time.Second,
		LogLevel:       "info",
	}
}

// DefaultCacheDir returns the XDG cache location for embeddings.
// Respects XDG_CACHE_HOME set after process start, which tests rely on.
func DefaultCacheDir() string {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		cacheHome = xdg.CacheHome
	}
	return filepath.Join(cacheHome, "plotsearch")
}

// Load reads PLOTSEARCH_CONFIG (if set) and then environment variables
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("PLOTSEARCH_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Dataset = getEnv("PLOTSEARCH_DATASET", cfg.Dataset)
	cfg.CacheDir = getEnv("PLOTSEARCH_CACHE_DIR", cfg.CacheDir)
	cfg.CacheBackend = getEnv("PLOTSEARCH_CACHE_BACKEND", cfg.CacheBackend)
	cfg.TopN = getEnvInt("PLOTSEARCH_TOP_N", cfg.TopN)
	cfg.Embedder = getEnv("PLOTSEARCH_EMBEDDER", cfg.Embedder)
	cfg.EmbeddingModel = getEnv("PLOTSEARCH_EMBEDDING_MODEL", cfg.EmbeddingModel)
	cfg.HashDimension = getEnvInt("PLOTSEARCH_HASH_DIMENSION", cfg.HashDimension)
	cfg.BatchSize = getEnvInt("PLOTSEARCH_BATCH_SIZE", cfg.BatchSize)
	cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.Timeout = getEnvDuration("OPENAI_TIMEOUT", cfg.Timeout)
	cfg.MaxRetries = getEnvInt("OPENAI_MAX_RETRIES", cfg.MaxRetries)
	cfg.RetryDelay = getEnvDuration("OPENAI_RETRY_DELAY", cfg.RetryDelay)
	cfg.LogLevel = getEnv("PLOTSEARCH_LOG_LEVEL", cfg.LogLevel)

	if cfg.Embedder == "" {
		if cfg.OpenAIKey != "" {
			cfg.Embedder = EmbedderOpenAI
		} else {
			cfg.Embedder = EmbedderHash
		}
	}

	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks value ranges and backend names
func (c *Config) Validate() error {
	switch c.CacheBackend {
	case CacheBackendFile, CacheBackendSQLite:
	default:
		return fmt.Errorf("PLOTSEARCH_CACHE_BACKEND must be %q or %q, got %q", CacheBackendFile, CacheBackendSQLite, c.CacheBackend)
	}
	switch c.Embedder {
	case EmbedderOpenAI:
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the %q embedder", EmbedderOpenAI)
		}
	case EmbedderHash:
	default:
		return fmt.Errorf("PLOTSEARCH_EMBEDDER must be %q or %q, got %q", EmbedderOpenAI, EmbedderHash, c.Embedder)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("PLOTSEARCH_TOP_N must be positive, got %d", c.TopN)
	}
	if c.HashDimension <= 0 {
		return fmt.Errorf("PLOTSEARCH_HASH_DIMENSION must be positive, got %d", c.HashDimension)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("PLOTSEARCH_BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.Dataset == "" {
		return fmt.Errorf("PLOTSEARCH_DATASET must not be empty")
	}
	if c.CacheDir == "" {
		return fmt.Errorf("PLOTSEARCH_CACHE_DIR must not be empty")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
