// Package storage persists recipes and brew sessions as versioned JSON
// envelopes in SQLite. Every failure is a *Error with an explicit Kind;
// nothing falls back to a default value.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"brewcalc/internal/logger"
)

// EnvelopeVersion is the envelope format written by this package.
const EnvelopeVersion = 1

// Envelope wraps every stored value.
type Envelope[T any] struct {
	Version int `json:"version"`
	Value   T   `json:"value"`
}

// Store is a key/value table of envelopes.
type Store struct {
	DBPath string
	db     *sql.DB
	quota  int64
	log    *logger.Logger
}

// Option configures a Store at Open.
type Option func(*Store)

// WithQuota caps the total stored envelope bytes. Zero means unlimited.
func WithQuota(bytes int64) Option {
	return func(s *Store) { s.quota = bytes }
}

// WithLogger sets the logger used for debug output.
func WithLogger(log *logger.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// Open opens or creates the store database.
func Open(path string, opts ...Option) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, newError(KindUnavailable, "", fmt.Errorf("resolve store db path: %w", err))
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, newError(KindUnavailable, "", fmt.Errorf("ensure store db dir: %w", err))
	}

	db, err := sql.Open("sqlite", absPath)
	if err != nil {
		return nil, newError(KindUnavailable, "", fmt.Errorf("open store db: %w", err))
	}
	s := &Store{DBPath: absPath, db: db, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ensureSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS envelopes (
	key TEXT PRIMARY KEY,
	envelope_json TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return newError(KindUnavailable, "", fmt.Errorf("create store schema: %w", err))
	}
	return nil
}

// PutRaw stores an already-encoded envelope under key.
func (s *Store) PutRaw(ctx context.Context, key string, data []byte) error {
	if s.quota > 0 {
		var used int64
		err := s.db.QueryRowContext(ctx,
			"SELECT COALESCE(SUM(LENGTH(envelope_json)), 0) FROM envelopes WHERE key != ?",
			key,
		).Scan(&used)
		if err != nil {
			return newError(KindUnavailable, key, fmt.Errorf("measure usage: %w", err))
		}
		if used+int64(len(data)) > s.quota {
			return newError(KindQuotaExceeded, key, fmt.Errorf("%d of %d bytes used, %d more requested", used, s.quota, len(data)))
		}
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO envelopes (key, envelope_json, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET envelope_json = excluded.envelope_json, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return newError(KindUnavailable, key, fmt.Errorf("write: %w", err))
	}
	s.log.Debug("storage put", "key", key, "bytes", len(data))
	return nil
}

// GetRaw returns the encoded envelope stored under key.
func (s *Store) GetRaw(ctx context.Context, key string) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT envelope_json FROM envelopes WHERE key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, newError(KindNotFound, key, nil)
	}
	if err != nil {
		return nil, newError(KindUnavailable, key, fmt.Errorf("read: %w", err))
	}
	return []byte(data), nil
}

// Delete removes key. Deleting a missing key is a not-found error.
func (s *Store) Delete(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM envelopes WHERE key = ?", key)
	if err != nil {
		return newError(KindUnavailable, key, fmt.Errorf("delete: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return newError(KindUnavailable, key, fmt.Errorf("delete: %w", err))
	}
	if n == 0 {
		return newError(KindNotFound, key, nil)
	}
	return nil
}

// Keys lists stored keys with the given prefix in ascending order.
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT key FROM envelopes WHERE substr(key, 1, length(?)) = ? ORDER BY key",
		prefix, prefix,
	)
	if err != nil {
		return nil, newError(KindUnavailable, prefix, fmt.Errorf("list keys: %w", err))
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, newError(KindUnavailable, prefix, fmt.Errorf("scan key: %w", err))
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, newError(KindUnavailable, prefix, fmt.Errorf("list keys: %w", err))
	}
	return keys, nil
}

// Put wraps v in a current-version envelope and stores it.
func Put[T any](ctx context.Context, s *Store, key string, v T) error {
	data, err := json.Marshal(Envelope[T]{Version: EnvelopeVersion, Value: v})
	if err != nil {
		return newError(KindParse, key, fmt.Errorf("encode: %w", err))
	}
	return s.PutRaw(ctx, key, data)
}

// Get loads and unwraps the envelope under key. Corrupt JSON, a missing
// version, or a version newer than EnvelopeVersion is a parse error.
func Get[T any](ctx context.Context, s *Store, key string) (T, error) {
	var zero T
	data, err := s.GetRaw(ctx, key)
	if err != nil {
		return zero, err
	}
	var env struct {
		Version int             `json:"version"`
		Value   json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return zero, newError(KindParse, key, fmt.Errorf("decode envelope: %w", err))
	}
	if env.Version < 1 || env.Version > EnvelopeVersion {
		return zero, newError(KindParse, key, fmt.Errorf("unsupported envelope version %d", env.Version))
	}
	var v T
	if err := json.Unmarshal(env.Value, &v); err != nil {
		return zero, newError(KindParse, key, fmt.Errorf("decode value: %w", err))
	}
	return v, nil
}
