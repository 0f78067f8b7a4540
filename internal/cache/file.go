// ABOUTME: Directory-backed cache store with a fingerprint file and a matrix file
// ABOUTME: Writes go through temp files and renames; the fingerprint is written last
package cache

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harper/plotsearch/internal/models"
)

// Artifact names inside the cache directory
const (
	FingerprintFilename = "fingerprint.txt"
	MatrixFilename      = "embeddings.bin"
)

var _ Store = (*FileStore)(nil)

// FileStore keeps a Record as two files in dir. The directory is created on
// first Save.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Location returns the cache directory
func (s *FileStore) Location() string {
	return s.dir
}

// Close is a no-op
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) fingerprintPath() string {
	return filepath.Join(s.dir, FingerprintFilename)
}

func (s *FileStore) matrixPath() string {
	return filepath.Join(s.dir, MatrixFilename)
}

// Load reads both artifacts. If either is missing the cache is empty.
func (s *FileStore) Load(ctx context.Context) (*Record, error) {
	fpData, err := os.ReadFile(s.fingerprintPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read fingerprint: %v", models.ErrCacheCorrupt, err)
	}

	matrixData, err := os.ReadFile(s.matrixPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read matrix: %v", models.ErrCacheCorrupt, err)
	}

	rec, err := parseFingerprintFile(fpData)
	if err != nil {
		return nil, err
	}

	rec.Matrix, err = DecodeMatrix(matrixData)
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// Save replaces the stored record. The old fingerprint is removed before the
// matrix is replaced, so an interrupted save reads back as empty rather than
// pairing an old fingerprint with a new matrix.
func (s *FileStore) Save(ctx context.Context, rec *Record) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	if err := os.Remove(s.fingerprintPath()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale fingerprint: %w", err)
	}

	if err := writeFileAtomic(s.matrixPath(), EncodeMatrix(rec.Matrix)); err != nil {
		return fmt.Errorf("write matrix: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := writeFileAtomic(s.fingerprintPath(), formatFingerprintFile(rec)); err != nil {
		return fmt.Errorf("write fingerprint: %w", err)
	}

	return nil
}

// The fingerprint file holds the fingerprint on its first line, followed by
// the build ID and creation time
func formatFingerprintFile(rec *Record) []byte {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, rec.Fingerprint.String())
	fmt.Fprintln(&buf, rec.BuildID)
	fmt.Fprintln(&buf, rec.CreatedAt.UTC().Format(time.RFC3339Nano))
	return buf.Bytes()
}

func parseFingerprintFile(data []byte) (*Record, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: scan fingerprint: %v", models.ErrCacheCorrupt, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: empty fingerprint file", models.ErrCacheCorrupt)
	}

	fp, err := models.ParseFingerprint(lines[0])
	if err != nil {
		return nil, err
	}

	rec := &Record{Fingerprint: fp}
	if len(lines) > 1 {
		rec.BuildID = lines[1]
	}
	if len(lines) > 2 {
		if t, err := time.Parse(time.RFC3339Nano, lines[2]); err == nil {
			rec.CreatedAt = t
		}
	}
	return rec, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
