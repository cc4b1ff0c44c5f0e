// Package store provides a local SQLite key-value store for readwatch.
//
// Store implements gokv.Store, so anything that takes a gokv.Store (the
// credential provider in particular) can persist to disk through it.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/philippgille/gokv"
	"github.com/philippgille/gokv/encoding"
	"github.com/philippgille/gokv/util"
	_ "modernc.org/sqlite"
)

var _ gokv.Store = (*Store)(nil)

// Store manages the SQLite database.
type Store struct {
	db    *sql.DB
	codec encoding.Codec
}

// Options configures a Store.
type Options struct {
	// Codec encodes values before they are written. Defaults to JSON.
	Codec encoding.Codec
}

// DefaultOptions is a JSON-encoding store.
var DefaultOptions = Options{
	Codec: encoding.JSON,
}

// New creates a new Store with the given database path.
// Use ":memory:" for an in-memory database (useful for testing).
func New(dbPath string) (*Store, error) {
	return NewWithOptions(dbPath, DefaultOptions)
}

// NewWithOptions is New with explicit options.
func NewWithOptions(dbPath string, opts Options) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every ":memory:" connection is its own database.
	db.SetMaxOpenConns(1)

	if opts.Codec == nil {
		opts.Codec = DefaultOptions.Codec
	}
	store := &Store{db: db, codec: opts.Codec}

	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		k TEXT PRIMARY KEY,
		v BLOB NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Set stores v under k, replacing any previous value.
func (s *Store) Set(k string, v any) error {
	if err := util.CheckKeyAndValue(k, v); err != nil {
		return err
	}

	data, err := s.codec.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode value for %q: %w", k, err)
	}

	_, err = s.db.Exec(
		"INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v",
		k, data,
	)
	if err != nil {
		return fmt.Errorf("failed to set %q: %w", k, err)
	}
	return nil
}

// Get decodes the value stored under k into v, which must be a pointer.
// found is false if k is not present.
func (s *Store) Get(k string, v any) (found bool, err error) {
	if err := util.CheckKeyAndValue(k, v); err != nil {
		return false, err
	}

	var data []byte
	err = s.db.QueryRow("SELECT v FROM kv WHERE k = ?", k).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %q: %w", k, err)
	}

	if err := s.codec.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("failed to decode value for %q: %w", k, err)
	}
	return true, nil
}

// Delete removes k. Deleting a missing key is not an error.
func (s *Store) Delete(k string) error {
	if err := util.CheckKey(k); err != nil {
		return err
	}

	_, err := s.db.Exec("DELETE FROM kv WHERE k = ?", k)
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", k, err)
	}
	return nil
}

// Keys lists stored keys in order.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.db.Query("SELECT k FROM kv ORDER BY k")
	if err != nil {
		return nil, fmt.Errorf("failed to query keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}

	return keys, rows.Err()
}
