// Package storage is the client's local key-value store: JSON values in a
// SQLite file under the XDG data directory.
//
// It backs the player snapshot, local favorites and playlists, and recent
// searches. Unreadable values surface as [shared.ErrMalformedState] so callers
// can fall back to defaults.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/desertthunder/harmony/internal/shared"
)

const (
	appName      = "harmony"
	dbFileName   = "client.db"
	saveDebounce = 500 * time.Millisecond

	KeyFavorites      = "favorites"
	KeyPlaylists      = "playlists"
	KeyRecentSearches = "recentSearches"
)

// Store is a key-value store of JSON documents.
type Store struct {
	db       *sql.DB
	logger   *log.Logger
	debounce time.Duration

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   func() error
}

// Option configures a [Store].
type Option func(*Store)

func WithLogger(logger *log.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithDebounce sets how long player state writes are coalesced. Zero writes immediately.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) { s.debounce = d }
}

// DefaultPath returns the database location under the XDG data directory.
func DefaultPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}

// Open opens or creates the store at path. An empty path uses [DefaultPath];
// ":memory:" opens a private in-memory store.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve state path: %w", err)
		}
		path = p
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, debounce: saveDebounce}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close flushes any pending write and closes the database.
func (s *Store) Close() error {
	if err := s.Flush(); err != nil {
		s.logger.Warn("failed to flush pending state", "err", err)
	}
	return s.db.Close()
}

// Get returns the raw value for key, or [shared.ErrNotFound].
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", shared.ErrNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// Put stores the raw value for key.
func (s *Store) Put(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Removing a missing key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys in order.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT key FROM kv ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Load decodes the JSON value for key into v. A value that does not decode
// returns [shared.ErrMalformedState].
func (s *Store) Load(key string, v any) error {
	raw, err := s.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrMalformedState, key, err)
	}
	return nil
}

// Save stores v as JSON under key.
func (s *Store) Save(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Put(key, string(b))
}

// saveLater coalesces writes: only the latest write within the debounce window runs.
func (s *Store) saveLater(write func() error) error {
	if s.debounce <= 0 {
		return write()
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.pending = write
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	s.saveTimer = time.AfterFunc(s.debounce, func() {
		if err := s.Flush(); err != nil {
			s.logger.Warn("failed to save state", "err", err)
		}
	})
	return nil
}

// Flush runs the pending debounced write, if any.
func (s *Store) Flush() error {
	s.saveMu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
		s.saveTimer = nil
	}
	pending := s.pending
	s.pending = nil
	s.saveMu.Unlock()

	if pending == nil {
		return nil
	}
	return pending()
}
