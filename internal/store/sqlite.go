// Package store persists accounts, categories, parties and transactions in
// a single SQLite file. One process owns the file for the duration of a
// run; the connection pool is limited to a single connection.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"fjacquet/bank-import/internal/fileutils"
	"fjacquet/bank-import/internal/logging"
	"fjacquet/bank-import/internal/models"
	"fjacquet/bank-import/internal/parsererror"
)

// ErrNotOpen is returned by operations called before Init or OpenReadOnly.
var ErrNotOpen = errors.New("store is not open")

// SQLiteStore is the file-backed relational store.
type SQLiteStore struct {
	path   string
	db     *sql.DB
	logger logging.Logger
}

// New returns a store for the database at path. Nothing is opened yet.
func New(path string, logger logging.Logger) *SQLiteStore {
	return &SQLiteStore{path: path, logger: logger.WithField("database", path)}
}

// Path is the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// DB exposes the open handle, or nil.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Reset deletes the database file and its WAL and shared-memory siblings.
// A missing file is not an error.
func (s *SQLiteStore) Reset() error {
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close database before reset: %w", err)
	}
	removed, err := fileutils.RemoveIfExists(s.path, s.path+"-wal", s.path+"-shm", s.path+"-journal")
	if err != nil {
		return fmt.Errorf("failed to reset database: %w", err)
	}
	s.logger.Warn("Database reset: all previously imported data was deleted",
		logging.F(logging.FieldOperation, "reset"),
		logging.F(logging.FieldCount, len(removed)))
	return nil
}

func (s *SQLiteStore) open(ctx context.Context, readOnly bool) error {
	if s.db != nil {
		return nil
	}
	if readOnly {
		if !fileutils.FileExists(s.path) {
			return &parsererror.StorageError{Op: "open", Err: fmt.Errorf("database %s does not exist", s.path)}
		}
	} else if err := fileutils.EnsureParentDir(s.path); err != nil {
		return &parsererror.StorageError{Op: "open", Err: err}
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return &parsererror.StorageError{Op: "open", Err: fmt.Errorf("failed to open database: %w", err)}
	}
	// Pragmas are per connection; a single connection keeps them in force.
	db.SetMaxOpenConns(1)

	pragmas := []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"}
	if readOnly {
		pragmas = append(pragmas, "PRAGMA query_only = ON")
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return &parsererror.StorageError{Op: "open", Err: fmt.Errorf("failed to apply %q: %w", p, err)}
		}
	}
	s.db = db
	return nil
}

// OpenReadOnly opens an existing database for queries only.
func (s *SQLiteStore) OpenReadOnly(ctx context.Context) error {
	return s.open(ctx, true)
}

// Init opens the database, creates the schema, seeds the canonical
// categories and returns the category index. Seeding is idempotent.
func (s *SQLiteStore) Init(ctx context.Context) (*models.CategoryIndex, error) {
	if err := s.open(ctx, false); err != nil {
		return nil, err
	}
	if err := runMigrations(ctx, s.db); err != nil {
		return nil, &parsererror.StorageError{Op: "migrate", Err: err}
	}
	if err := s.seedCategories(ctx); err != nil {
		return nil, &parsererror.StorageError{Op: "seed categories", Err: err}
	}
	index, err := s.LoadCategoryIndex(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Database initialized", logging.F(logging.FieldCount, index.Len()))
	return index, nil
}

func (s *SQLiteStore) seedCategories(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO categories (name, type) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare seed statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range models.CanonicalCategories {
		if _, err := stmt.ExecContext(ctx, c.Name, string(c.Type)); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.Name, err)
		}
	}
	return tx.Commit()
}

// Categories lists every stored category ordered by id.
func (s *SQLiteStore) Categories(ctx context.Context) ([]models.Category, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, parent_id, type FROM categories ORDER BY id`)
	if err != nil {
		return nil, &parsererror.StorageError{Op: "list categories", Err: err}
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var (
			c      models.Category
			parent sql.NullInt64
			typ    string
		)
		if err := rows.Scan(&c.ID, &c.Name, &parent, &typ); err != nil {
			return nil, &parsererror.StorageError{Op: "list categories", Err: err}
		}
		if parent.Valid {
			c.ParentID = &parent.Int64
		}
		c.Type = models.CategoryType(typ)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &parsererror.StorageError{Op: "list categories", Err: err}
	}
	return out, nil
}

// LoadCategoryIndex builds the name index from the stored categories. It
// fails when the fallback category is missing.
func (s *SQLiteStore) LoadCategoryIndex(ctx context.Context) (*models.CategoryIndex, error) {
	cats, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	index, err := models.NewCategoryIndex(cats)
	if err != nil {
		return nil, &parsererror.StorageError{Op: "load category index", Err: err}
	}
	return index, nil
}

// Close closes the database if it is open.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
