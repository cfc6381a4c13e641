// Package persist keeps movement snapshots in sqlite save slots.
package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"
)

var ErrClosed = errors.New("persist: store closed")

const schema = `CREATE TABLE IF NOT EXISTS snapshots (
	slot       TEXT    NOT NULL,
	key        TEXT    NOT NULL,
	data       BLOB    NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (slot, key)
)`

// Store is a save-slot table. A slot holds one JSON document per key.
type Store struct {
	db *sql.DB
}

// Open opens or creates the store at path. ":memory:" gives a private
// in-memory store.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("persist: open %s: %w", path, err)
	}
	// Every connection to ":memory:" is a different database.
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("persist: wal %s: %w", path, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("persist: schema %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Save writes v under slot/key, replacing any previous value.
func (s *Store) Save(ctx context.Context, slot, key string, v any) error {
	return s.SaveAll(ctx, slot, map[string]any{key: v}, false)
}

// SaveAll writes every entry of values into slot in one transaction. With
// replace, keys of the slot missing from values are deleted.
func (s *Store) SaveAll(ctx context.Context, slot string, values map[string]any, replace bool) error {
	if s == nil || s.db == nil {
		return ErrClosed
	}
	return s.transaction(ctx, func(tx *sql.Tx) error {
		if replace {
			if _, err := tx.ExecContext(ctx, "DELETE FROM snapshots WHERE slot = ?", slot); err != nil {
				return fmt.Errorf("persist: clear %s: %w", slot, err)
			}
		}
		now := time.Now().Unix()
		for key, v := range values {
			data, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("persist: marshal %s/%s: %w", slot, key, err)
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO snapshots (slot, key, data, updated_at) VALUES (?, ?, ?, ?)
				 ON CONFLICT(slot, key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
				slot, key, data, now)
			if err != nil {
				return fmt.Errorf("persist: save %s/%s: %w", slot, key, err)
			}
		}
		return nil
	})
}

// Load decodes slot/key into v. ok is false when nothing is stored there.
func (s *Store) Load(ctx context.Context, slot, key string, v any) (bool, error) {
	if s == nil || s.db == nil {
		return false, ErrClosed
	}
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM snapshots WHERE slot = ? AND key = ?", slot, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("persist: load %s/%s: %w", slot, key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("persist: unmarshal %s/%s: %w", slot, key, err)
	}
	return true, nil
}

// Keys lists the keys stored in slot, sorted.
func (s *Store) Keys(ctx context.Context, slot string) ([]string, error) {
	return s.strings(ctx, "SELECT key FROM snapshots WHERE slot = ? ORDER BY key", slot)
}

// Slots lists every slot holding at least one key, sorted.
func (s *Store) Slots(ctx context.Context) ([]string, error) {
	return s.strings(ctx, "SELECT DISTINCT slot FROM snapshots ORDER BY slot")
}

// Delete drops a slot and reports whether it existed.
func (s *Store) Delete(ctx context.Context, slot string) (bool, error) {
	if s == nil || s.db == nil {
		return false, ErrClosed
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE slot = ?", slot)
	if err != nil {
		return false, fmt.Errorf("persist: delete %s: %w", slot, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("persist: delete %s: %w", slot, err)
	}
	return n > 0, nil
}

func (s *Store) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("persist: query: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("persist: scan: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) transaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("persist: begin: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%v, rollback: %w", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("persist: commit: %w", err)
	}
	return nil
}
