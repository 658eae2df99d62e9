package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const upsertQuery = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

// SQLiteStore implements KeyValueStore on a single-file SQLite database, the
// on-device store of the CLI.
type SQLiteStore struct {
	dbConn *sqlx.DB
}

// OpenSQLite connects to the SQLite file at path and applies pending migrations.
// The pool is limited to one connection so Update transactions never contend.
func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path))
	if err != nil {
		return nil, fmt.Errorf("connecting to db : %w", err)
	}

	db.SetMaxOpenConns(1)

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(string(goose.DialectSQLite3)); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting dialect for migrations : %w", err)
	}

	if err := goose.Up(db.DB, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying migration : %w", err)
	}
	return db, nil
}

// NewSQLiteStore wraps an open connection.
func NewSQLiteStore(db *sqlx.DB) *SQLiteStore {
	return &SQLiteStore{dbConn: db}
}

// Get implements KeyValueStore.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.dbConn.GetContext(ctx, &value, `SELECT value FROM kv WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting key %s: %w", key, err)
	}
	return value, nil
}

// Set implements KeyValueStore.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	if _, err := s.dbConn.ExecContext(ctx, upsertQuery, key, value); err != nil {
		return fmt.Errorf("setting key %s: %w", key, err)
	}
	return nil
}

// Remove implements KeyValueStore.
func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	if _, err := s.dbConn.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("removing key %s: %w", key, err)
	}
	return nil
}

// SetMany implements KeyValueStore.
func (s *SQLiteStore) SetMany(ctx context.Context, pairs map[string]string) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		for k, v := range pairs {
			if _, err := tx.ExecContext(ctx, upsertQuery, k, v); err != nil {
				return fmt.Errorf("setting key %s: %w", k, err)
			}
		}
		return nil
	})
}

// RemoveMany implements KeyValueStore.
func (s *SQLiteStore) RemoveMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM kv WHERE key IN (?)`, keys)
	if err != nil {
		return fmt.Errorf("building delete query: %w", err)
	}
	if _, err := s.dbConn.ExecContext(ctx, s.dbConn.Rebind(query), args...); err != nil {
		return fmt.Errorf("removing keys: %w", err)
	}
	return nil
}

// Update implements KeyValueStore.
func (s *SQLiteStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		var current string
		found := true
		err := tx.GetContext(ctx, &current, `SELECT value FROM kv WHERE key = ?`, key)
		if errors.Is(err, sql.ErrNoRows) {
			found = false
		} else if err != nil {
			return fmt.Errorf("getting key %s: %w", key, err)
		}

		next, err := fn(current, found)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, upsertQuery, key, next); err != nil {
			return fmt.Errorf("setting key %s: %w", key, err)
		}
		return nil
	})
}

// Close terminates the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.dbConn.Close(); err != nil {
		return fmt.Errorf("closing store : %w", err)
	}
	return nil
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.dbConn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
