// ABOUTME: Test helpers for running commands end to end
// ABOUTME: Uses the hashing embedder so no network access is needed

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const testMovies = `title,plot
Spy Movie,A spy navigates intrigue in Paris to stop a terrorist plot.
Romance in Paris,A couple falls in love in Paris under romantic circumstances.
Action Flick,A high-octane chase through New York with explosions.
`

// setupEnv isolates config from the host and writes a small dataset.
// It returns the dataset path and the cache directory.
func setupEnv(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	for _, key := range []string{
		"PLOTSEARCH_CONFIG", "PLOTSEARCH_DATASET", "PLOTSEARCH_CACHE_DIR",
		"PLOTSEARCH_CACHE_BACKEND", "PLOTSEARCH_TOP_N", "PLOTSEARCH_EMBEDDING_MODEL",
		"PLOTSEARCH_HASH_DIMENSION", "PLOTSEARCH_BATCH_SIZE", "PLOTSEARCH_LOG_LEVEL",
		"OPENAI_API_KEY", "OPENAI_BASE_URL",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("PLOTSEARCH_EMBEDDER", "hash")
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "xdg"))

	path := filepath.Join(dir, "movies.csv")
	if err := os.WriteFile(path, []byte(testMovies), 0644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path, filepath.Join(dir, "cache")
}

// runRoot executes the root command and returns stdout and stderr
func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeFile writes content to a fresh temp file and returns its path
func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
