// ABOUTME: Tests for index and status commands
// ABOUTME: Verifies cache warm-up reports and freshness output

package commands

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/harper/plotsearch/internal/cache"
)

func TestIndexCmd_ComputesThenReuses(t *testing.T) {
	path, cacheDir := setupEnv(t)
	args := []string{"--dataset", path, "--cache-dir", cacheDir, "--format", "json", "index"}

	stdout, _, err := runRoot(t, args...)
	if err != nil {
		t.Fatalf("index error = %v", err)
	}
	var first indexReport
	if err := json.Unmarshal([]byte(stdout), &first); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if first.Hit {
		t.Error("first index should compute embeddings")
	}
	if first.Rows != 3 {
		t.Errorf("Rows = %d, want 3", first.Rows)
	}
	if first.Dimension != 1024 {
		t.Errorf("Dimension = %d, want 1024", first.Dimension)
	}
	if !strings.HasPrefix(first.Fingerprint, "sha256:") {
		t.Errorf("Fingerprint = %q", first.Fingerprint)
	}

	stdout, _, err = runRoot(t, args...)
	if err != nil {
		t.Fatalf("second index error = %v", err)
	}
	var second indexReport
	if err := json.Unmarshal([]byte(stdout), &second); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if !second.Hit {
		t.Error("second index should reuse the cache")
	}
	if second.BuildID != first.BuildID {
		t.Errorf("BuildID = %q, want reused %q", second.BuildID, first.BuildID)
	}
}

func TestIndexCmd_SQLiteBackend(t *testing.T) {
	path, cacheDir := setupEnv(t)
	t.Setenv("PLOTSEARCH_CACHE_BACKEND", "sqlite")

	stdout, _, err := runRoot(t, "--dataset", path, "--cache-dir", cacheDir, "--format", "table", "index")
	if err != nil {
		t.Fatalf("index error = %v", err)
	}
	if !strings.Contains(stdout, "Embeddings computed for 3 movie(s)") {
		t.Errorf("output = %q", stdout)
	}
	if _, err := os.Stat(cacheDir + "/" + cache.DBFilename); err != nil {
		t.Errorf("sqlite cache not created: %v", err)
	}
}

func TestStatusCmd(t *testing.T) {
	path, cacheDir := setupEnv(t)
	base := []string{"--dataset", path, "--cache-dir", cacheDir}

	stdout, _, err := runRoot(t, append(base, "--format", "table", "status")...)
	if err != nil {
		t.Fatalf("status error = %v", err)
	}
	if !strings.Contains(stdout, "stale") || !strings.Contains(stdout, "no cached embeddings") {
		t.Errorf("status before index = %q", stdout)
	}

	if _, _, err := runRoot(t, append(base, "--quiet", "index")...); err != nil {
		t.Fatalf("index error = %v", err)
	}

	stdout, _, err = runRoot(t, append(base, "--format", "json", "status")...)
	if err != nil {
		t.Fatalf("status error = %v", err)
	}
	var st cache.Status
	if err := json.Unmarshal([]byte(stdout), &st); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if !st.Fresh {
		t.Errorf("cache should be fresh after index, reason %q", st.Reason)
	}

	if err := os.WriteFile(path, []byte(testMovies+"New Movie,A new plot.\n"), 0644); err != nil {
		t.Fatal(err)
	}
	stdout, _, err = runRoot(t, append(base, "--format", "table", "status")...)
	if err != nil {
		t.Fatalf("status error = %v", err)
	}
	if !strings.Contains(stdout, "dataset changed") {
		t.Errorf("status after edit = %q", stdout)
	}
}
