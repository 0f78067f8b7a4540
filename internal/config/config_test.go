// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies YAML file loading, environment overrides, and validation
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"PLOTSEARCH_CONFIG",
	"PLOTSEARCH_DATASET",
	"PLOTSEARCH_CACHE_DIR",
	"PLOTSEARCH_CACHE_BACKEND",
	"PLOTSEARCH_TOP_N",
	"PLOTSEARCH_EMBEDDER",
	"PLOTSEARCH_EMBEDDING_MODEL",
	"PLOTSEARCH_HASH_DIMENSION",
	"PLOTSEARCH_BATCH_SIZE",
	"PLOTSEARCH_LOG_LEVEL",
	"OPENAI_API_KEY",
	"OPENAI_BASE_URL",
	"OPENAI_TIMEOUT",
	"OPENAI_MAX_RETRIES",
	"OPENAI_RETRY_DELAY",
}

// clearEnv blanks every key Load reads; getEnv treats empty as unset
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Dataset != "movies.csv" {
		t.Errorf("Dataset = %s, want movies.csv", cfg.Dataset)
	}
	if cfg.CacheDir != filepath.Join("/tmp/xdg-cache", "plotsearch") {
		t.Errorf("CacheDir = %s, want /tmp/xdg-cache/plotsearch", cfg.CacheDir)
	}
	if cfg.CacheBackend != CacheBackendFile {
		t.Errorf("CacheBackend = %s, want file", cfg.CacheBackend)
	}
	if cfg.TopN != 5 {
		t.Errorf("TopN = %d, want 5", cfg.TopN)
	}
	if cfg.Embedder != EmbedderHash {
		t.Errorf("Embedder = %s, want hash when no API key is set", cfg.Embedder)
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %s, want text-embedding-3-small", cfg.EmbeddingModel)
	}
	if cfg.HashDimension != 1024 {
		t.Errorf("HashDimension = %d, want 1024", cfg.HashDimension)
	}
	if cfg.BatchSize != 256 {
		t.Errorf("BatchSize = %d, want 256", cfg.BatchSize)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.RetryDelay)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
}

func TestLoad_APIKeySelectsOpenAI(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Embedder != EmbedderOpenAI {
		t.Errorf("Embedder = %s, want openai", cfg.Embedder)
	}
	if cfg.OpenAIKey != "test-key" {
		t.Errorf("OpenAIKey = %s, want test-key", cfg.OpenAIKey)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLOTSEARCH_DATASET", "/data/plots.csv")
	t.Setenv("PLOTSEARCH_CACHE_DIR", "/data/cache")
	t.Setenv("PLOTSEARCH_CACHE_BACKEND", "sqlite")
	t.Setenv("PLOTSEARCH_TOP_N", "10")
	t.Setenv("PLOTSEARCH_EMBEDDER", "hash")
	t.Setenv("PLOTSEARCH_HASH_DIMENSION", "256")
	t.Setenv("PLOTSEARCH_EMBEDDING_MODEL", "text-embedding-3-large")
	t.Setenv("PLOTSEARCH_BATCH_SIZE", "64")
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_TIMEOUT", "60s")
	t.Setenv("OPENAI_MAX_RETRIES", "5")
	t.Setenv("OPENAI_RETRY_DELAY", "3s")
	t.Setenv("PLOTSEARCH_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Dataset != "/data/plots.csv" {
		t.Errorf("Dataset = %s, want /data/plots.csv", cfg.Dataset)
	}
	if cfg.CacheDir != "/data/cache" {
		t.Errorf("CacheDir = %s, want /data/cache", cfg.CacheDir)
	}
	if cfg.CacheBackend != CacheBackendSQLite {
		t.Errorf("CacheBackend = %s, want sqlite", cfg.CacheBackend)
	}
	if cfg.TopN != 10 {
		t.Errorf("TopN = %d, want 10", cfg.TopN)
	}
	if cfg.Embedder != EmbedderHash {
		t.Errorf("Embedder = %s, want explicit hash despite API key", cfg.Embedder)
	}
	if cfg.HashDimension != 256 {
		t.Errorf("HashDimension = %d, want 256", cfg.HashDimension)
	}
	if cfg.EmbeddingModel != "text-embedding-3-large" {
		t.Errorf("EmbeddingModel = %s, want text-embedding-3-large", cfg.EmbeddingModel)
	}
	if cfg.BatchSize != 64 {
		t.Errorf("BatchSize = %d, want 64", cfg.BatchSize)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 3*time.Second {
		t.Errorf("RetryDelay = %v, want 3s", cfg.RetryDelay)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
}

func TestLoad_YAMLFileWithEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "plotsearch.yaml")
	content := `dataset: /srv/movies.csv
cache_dir: /srv/cache
cache_backend: sqlite
top_n: 3
embedder: hash
hash_dimension: 512
timeout: 45s
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PLOTSEARCH_CONFIG", path)
	t.Setenv("PLOTSEARCH_TOP_N", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Dataset != "/srv/movies.csv" {
		t.Errorf("Dataset = %s, want /srv/movies.csv", cfg.Dataset)
	}
	if cfg.CacheBackend != CacheBackendSQLite {
		t.Errorf("CacheBackend = %s, want sqlite", cfg.CacheBackend)
	}
	if cfg.HashDimension != 512 {
		t.Errorf("HashDimension = %d, want 512", cfg.HashDimension)
	}
	if cfg.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", cfg.Timeout)
	}
	if cfg.TopN != 7 {
		t.Errorf("TopN = %d, want env override 7", cfg.TopN)
	}
	if cfg.BatchSize != 256 {
		t.Errorf("BatchSize = %d, want default 256", cfg.BatchSize)
	}
}

func TestLoad_BadYAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("top_n: [not, a, number"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PLOTSEARCH_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Error("Load() should fail for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		errContains string
	}{
		{"valid hash config", func(c *Config) {}, ""},
		{"unknown backend", func(c *Config) { c.CacheBackend = "redis" }, "PLOTSEARCH_CACHE_BACKEND"},
		{"unknown embedder", func(c *Config) { c.Embedder = "bert" }, "PLOTSEARCH_EMBEDDER"},
		{"openai without key", func(c *Config) { c.Embedder = EmbedderOpenAI }, "OPENAI_API_KEY"},
		{"zero top_n", func(c *Config) { c.TopN = 0 }, "PLOTSEARCH_TOP_N"},
		{"negative hash dimension", func(c *Config) { c.HashDimension = -1 }, "PLOTSEARCH_HASH_DIMENSION"},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, "PLOTSEARCH_BATCH_SIZE"},
		{"too many retries", func(c *Config) { c.MaxRetries = 15 }, "OPENAI_MAX_RETRIES"},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, "OPENAI_MAX_RETRIES"},
		{"empty dataset", func(c *Config) { c.Dataset = "" }, "PLOTSEARCH_DATASET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Embedder = EmbedderHash
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errContains == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() should fail for %s", tt.name)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Validate() error = %q, want it to mention %s", err.Error(), tt.errContains)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		defaultVal int
		want       int
	}{
		{"empty uses default", "", 5, 5},
		{"valid int", "12", 5, 12},
		{"invalid falls back", "twelve", 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.value)
			if got := getEnvInt("TEST_INT", tt.defaultVal); got != tt.want {
				t.Errorf("getEnvInt() = %d, want %d", got, tt.want)
			}
		})
	}
}
