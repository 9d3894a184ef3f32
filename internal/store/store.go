// Package store persists boats, boat types and reviews in SQLite and
// implements boat.Service on top of them.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/Josh-Grafman/boatrental/internal/errors"
	"github.com/Josh-Grafman/boatrental/internal/logging"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Store is the SQLite-backed boat service.
type Store struct {
	db     *sql.DB
	path   string
	logger *logging.Logger
	closed atomic.Bool

	// now is replaceable in tests.
	now func() time.Time
}

// Open creates the database directory if needed, applies pending
// migrations and opens the store.
func Open(ctx context.Context, path string, logger *logging.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.NewValidationError("database path is required").WithField("store.path")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.NewStoreError("create database directory", err)
		}
	}

	if err := migrateUp(path); err != nil {
		return nil, err
	}

	db, err := openDB(path)
	if err != nil {
		return nil, errors.NewStoreError("open database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.NewStoreError("ping database", err)
	}

	s := &Store{
		db:     db,
		path:   path,
		logger: logging.OrNop(logger).WithComponent("store"),
		now:    func() time.Time { return time.Now().UTC() },
	}
	s.logger.Debug("store opened", "path", path)
	return s, nil
}

func openDB(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)
	return db, nil
}

// migrateUp applies the embedded migrations on a connection of its own;
// closing the migrator closes that connection.
func migrateUp(path string) error {
	db, err := openDB(path)
	if err != nil {
		return errors.NewStoreError("open database for migration", err)
	}

	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		_ = db.Close()
		return errors.Join(errors.ErrMigration, err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		_ = db.Close()
		return errors.Join(errors.ErrMigration, err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		_ = db.Close()
		return errors.Join(errors.ErrMigration, err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Join(errors.ErrMigration, err)
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the database. Calls after the first return nil.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

func (s *Store) checkOpen() error {
	if s.closed.Load() {
		return errors.ErrStoreClosed
	}
	return nil
}

// withTx runs fn in a transaction.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.storeErr("begin transaction", "", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return s.storeErr("commit", "", err)
	}
	return nil
}

// storeErr wraps a database failure. Busy and locked databases are marked
// retryable.
func (s *Store) storeErr(op, table string, err error) error {
	se := errors.NewStoreError(op, err).WithTable(table)
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) && (sqlErr.Code == sqlite3.ErrBusy || sqlErr.Code == sqlite3.ErrLocked) {
		se = se.WithRetryable(true)
	}
	s.logger.Warn("store failure", "op", op, "table", table, "error", err.Error())
	return se
}
