// ABOUTME: SQLite-backed cache store using modernc.org/sqlite
// ABOUTME: Fingerprint and matrix are written in one transaction
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harper/plotsearch/internal/models"

	_ "modernc.org/sqlite"
)

// DBFilename is the database file inside the cache directory
const DBFilename = "cache.db"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS embedding_cache (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	fingerprint TEXT NOT NULL,
	row_count   INTEGER NOT NULL,
	dimension   INTEGER NOT NULL,
	matrix      BLOB NOT NULL,
	build_id    TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
`

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore keeps a single Record row in cache.db
type SQLiteStore struct {
	conn *sql.DB
	path string
}

// OpenSQLiteStore opens or creates cache.db inside dir
func OpenSQLiteStore(dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return openSQLite(filepath.Join(dir, DBFilename), "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
}

// OpenInMemorySQLiteStore creates an in-memory store (for testing)
func OpenInMemorySQLiteStore() (*SQLiteStore, error) {
	return openSQLite(":memory:", "")
}

func openSQLite(path, params string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path+params)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Keep :memory: databases on a single connection
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := conn.Exec(sqliteSchema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{conn: conn, path: path}, nil
}

// Location returns the database path
func (s *SQLiteStore) Location() string {
	return s.path
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Load reads the stored record
func (s *SQLiteStore) Load(ctx context.Context) (*Record, error) {
	var (
		fingerprint string
		rows, dim   int
		blob        []byte
		buildID     string
		createdAt   string
	)

	err := s.conn.QueryRowContext(ctx, `
		SELECT fingerprint, row_count, dimension, matrix, build_id, created_at
		FROM embedding_cache
		WHERE id = 1
	`).Scan(&fingerprint, &rows, &dim, &blob, &buildID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query cache row: %v", models.ErrCacheCorrupt, err)
	}

	fp, err := models.ParseFingerprint(fingerprint)
	if err != nil {
		return nil, err
	}

	matrix, err := DecodeMatrix(blob)
	if err != nil {
		return nil, err
	}
	if matrix.Rows() != rows || (rows > 0 && matrix.Dim() != dim) {
		return nil, fmt.Errorf("%w: row says %dx%d, blob holds %dx%d", models.ErrCacheCorrupt, rows, dim, matrix.Rows(), matrix.Dim())
	}

	rec := &Record{Fingerprint: fp, Matrix: matrix, BuildID: buildID}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		rec.CreatedAt = t
	}
	return rec, nil
}

// Save upserts the record in a single transaction
func (s *SQLiteStore) Save(ctx context.Context, rec *Record) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO embedding_cache (id, fingerprint, row_count, dimension, matrix, build_id, created_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			row_count = excluded.row_count,
			dimension = excluded.dimension,
			matrix = excluded.matrix,
			build_id = excluded.build_id,
			created_at = excluded.created_at
	`, rec.Fingerprint.String(), rec.Matrix.Rows(), rec.Matrix.Dim(), EncodeMatrix(rec.Matrix),
		rec.BuildID, rec.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("upsert cache row: %w", err)
	}

	return tx.Commit()
}
