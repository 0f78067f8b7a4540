// ABOUTME: Embedding cache manager deciding between a cached matrix and a rebuild
// ABOUTME: Staleness is keyed on the dataset file hash plus the embedder model ID
package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harper/plotsearch/internal/dataset"
	"github.com/harper/plotsearch/internal/embedding"
	"github.com/harper/plotsearch/internal/models"
)

// Snapshot is the dataset as read for one call, with its aligned matrix
type Snapshot struct {
	Movies      []models.Movie
	Matrix      models.Matrix
	Fingerprint models.Fingerprint
	BuildID     string
	Hit         bool
}

// Status describes the stored cache relative to the live dataset
type Status struct {
	Location   string             `json:"location" yaml:"location"`
	Current    models.Fingerprint `json:"current" yaml:"current"`
	Stored     models.Fingerprint `json:"stored" yaml:"stored"`
	Rows       int                `json:"rows" yaml:"rows"`
	CachedRows int                `json:"cached_rows" yaml:"cached_rows"`
	Dimension  int                `json:"dimension" yaml:"dimension"`
	BuildID    string             `json:"build_id,omitempty" yaml:"build_id,omitempty"`
	CreatedAt  *time.Time         `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	Fresh      bool               `json:"fresh" yaml:"fresh"`
	Reason     string             `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Manager returns embeddings for a dataset, rebuilding them when the stored
// record does not match
type Manager struct {
	store    Store
	embedder embedding.Embedder
	logger   *log.Logger
	now      func() time.Time
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger; the default discards output
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a manager. The caller owns store and embedder.
func NewManager(store Store, embedder embedding.Embedder, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		embedder: embedder,
		logger:   log.New(io.Discard),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Embedder returns the embedder used for dataset rows
func (m *Manager) Embedder() embedding.Embedder {
	return m.embedder
}

// GetOrBuildEmbeddings returns the embedding matrix for the dataset
func (m *Manager) GetOrBuildEmbeddings(ctx context.Context, datasetPath string) (models.Matrix, error) {
	snap, err := m.Load(ctx, datasetPath)
	if err != nil {
		return nil, err
	}
	return snap.Matrix, nil
}

// Load reads the dataset once, then returns the cached matrix if its
// fingerprint and shape match, otherwise embeds every plot and persists the
// result. Persistence failures are logged, not returned.
func (m *Manager) Load(ctx context.Context, datasetPath string) (*Snapshot, error) {
	data, err := dataset.Read(datasetPath)
	if err != nil {
		return nil, err
	}

	movies, err := dataset.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", datasetPath, err)
	}

	fp := dataset.Fingerprint(data, m.embedder.ModelID())
	logger := m.logger.With("dataset", datasetPath, "rows", len(movies))

	if rec := m.lookup(ctx, logger, fp, len(movies)); rec != nil {
		logger.Debug("embedding cache hit", "build_id", rec.BuildID)
		return &Snapshot{
			Movies:      movies,
			Matrix:      rec.Matrix,
			Fingerprint: fp,
			BuildID:     rec.BuildID,
			Hit:         true,
		}, nil
	}

	rec, err := m.build(ctx, logger, fp, movies)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Movies:      movies,
		Matrix:      rec.Matrix,
		Fingerprint: fp,
		BuildID:     rec.BuildID,
	}, nil
}

// lookup returns the stored record only when it is usable for fp and rows
func (m *Manager) lookup(ctx context.Context, logger *log.Logger, fp models.Fingerprint, rows int) *Record {
	rec, err := m.store.Load(ctx)
	if err != nil {
		if errors.Is(err, models.ErrCacheCorrupt) {
			logger.Warn("embedding cache corrupt, rebuilding", "location", m.store.Location(), "err", err)
		} else {
			logger.Warn("embedding cache unreadable, rebuilding", "location", m.store.Location(), "err", err)
		}
		return nil
	}
	if rec == nil {
		logger.Debug("embedding cache empty", "location", m.store.Location())
		return nil
	}
	if reason := staleReason(rec, fp, rows); reason != "" {
		if rec.Fingerprint != fp {
			logger.Debug("embedding cache stale", "reason", reason, "stored", rec.Fingerprint.String(), "current", fp.String())
		} else {
			logger.Warn("embedding cache does not match dataset shape, rebuilding", "reason", reason)
		}
		return nil
	}
	return rec
}

// staleReason reports why rec cannot serve fp with rows, or "" when it can.
// lookup and Status both decide freshness here.
func staleReason(rec *Record, fp models.Fingerprint, rows int) string {
	switch {
	case rec == nil:
		return "no cached embeddings"
	case rec.Fingerprint.Dataset != fp.Dataset:
		return "dataset changed"
	case rec.Fingerprint.Model != fp.Model:
		return "embedding model changed"
	}
	if err := rec.Matrix.Validate(rows); err != nil {
		return err.Error()
	}
	return ""
}

func (m *Manager) build(ctx context.Context, logger *log.Logger, fp models.Fingerprint, movies []models.Movie) (*Record, error) {
	rec := &Record{
		Fingerprint: fp,
		Matrix:      models.Matrix{},
		BuildID:     uuid.NewString(),
		CreatedAt:   m.now(),
	}
	logger = logger.With("build_id", rec.BuildID)
	logger.Info("computing embeddings", "model", fp.Model)

	start := time.Now()
	if len(movies) > 0 {
		vectors, err := m.embedder.Embed(ctx, models.Plots(movies))
		if err != nil {
			return nil, fmt.Errorf("embed dataset: %w", err)
		}
		rec.Matrix = models.Matrix(vectors)
	}
	if err := rec.Matrix.Validate(len(movies)); err != nil {
		return nil, fmt.Errorf("embedder output: %w", err)
	}
	logger.Info("embeddings computed", "dimension", rec.Matrix.Dim(), "elapsed", time.Since(start))

	if err := m.store.Save(ctx, rec); err != nil {
		logger.Warn("embedding cache not persisted", "location", m.store.Location(), "err", err)
	}

	return rec, nil
}

// Status compares the stored record with the live dataset without embedding
func (m *Manager) Status(ctx context.Context, datasetPath string) (*Status, error) {
	data, err := dataset.Read(datasetPath)
	if err != nil {
		return nil, err
	}
	movies, err := dataset.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", datasetPath, err)
	}

	st := &Status{
		Location: m.store.Location(),
		Current:  dataset.Fingerprint(data, m.embedder.ModelID()),
		Rows:     len(movies),
	}

	rec, err := m.store.Load(ctx)
	if err != nil {
		st.Reason = err.Error()
		return st, nil
	}

	if rec != nil {
		st.Stored = rec.Fingerprint
		st.CachedRows = rec.Matrix.Rows()
		st.Dimension = rec.Matrix.Dim()
		st.BuildID = rec.BuildID
		if !rec.CreatedAt.IsZero() {
			created := rec.CreatedAt
			st.CreatedAt = &created
		}
	}

	st.Reason = staleReason(rec, st.Current, len(movies))
	st.Fresh = st.Reason == ""
	return st, nil
}

// Close closes the underlying store
func (m *Manager) Close() error {
	return m.store.Close()
}
