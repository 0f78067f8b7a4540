// ABOUTME: Cache record and storage backends for embedding matrices
// ABOUTME: A record pairs a dataset fingerprint with the matrix built from it
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/plotsearch/internal/models"
)

// Record is one persisted embedding build
type Record struct {
	Fingerprint models.Fingerprint
	Matrix      models.Matrix
	BuildID     string
	CreatedAt   time.Time
}

// Store persists at most one Record. Load returns (nil, nil) when nothing
// has been stored yet; malformed artifacts wrap models.ErrCacheCorrupt.
type Store interface {
	Load(ctx context.Context) (*Record, error)
	Save(ctx context.Context, rec *Record) error
	Location() string
	Close() error
}

// OpenStore opens the named backend rooted at dir
func OpenStore(backend, dir string) (Store, error) {
	switch backend {
	case "", "file":
		return NewFileStore(dir), nil
	case "sqlite":
		return OpenSQLiteStore(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
