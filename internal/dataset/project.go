// ABOUTME: One-off cleaning step that projects a raw movie CSV to title and plot
// ABOUTME: Used to derive movies.csv from the Wikipedia movie plots dump
package dataset

import (
	"fmt"
	"os"
	"path/filepath"
)

// Project reads the CSV at src, keeps only the title and plot columns and
// writes them to dst in source order. It returns the number of rows written.
func Project(src, dst string) (int, error) {
	movies, err := Load(src)
	if err != nil {
		return 0, err
	}

	if dir := filepath.Dir(dst); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("create output directory: %w", err)
		}
	}

	tmp := dst + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", tmp, err)
	}

	if err := Write(f, movies); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return 0, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("rename %s: %w", dst, err)
	}

	return len(movies), nil
}
