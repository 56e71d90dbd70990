// Package sqlite stores the registry document in an embedded SQLite database.
package sqlite

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

	"github.com/osse101/armorsmith/internal/database"
	"github.com/osse101/armorsmith/internal/repository"
)

const (
	selectDocumentSQL = `SELECT body FROM registry_documents WHERE name = ?`
	upsertDocumentSQL = `
		INSERT INTO registry_documents (name, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`
)

// Store implements repository.Store on a single-connection SQLite handle
type Store struct {
	db   *sql.DB
	name string
}

// Open opens (creating if needed) the database at path and applies migrations
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty sqlite path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	if err := database.Migrate(ctx, db, database.DialectSQLite); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, name: database.RegistryDocumentName}, nil
}

// Load reads the registry document. A missing row loads as an empty document.
func (s *Store) Load(ctx context.Context) (*repository.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx, selectDocumentSQL, s.name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", database.ErrMsgFailedToLoadDocument, err)
	}

	doc := repository.NewDocument()
	if err := json.Unmarshal([]byte(body), doc); err != nil {
		return nil, fmt.Errorf("%s: %w", database.ErrMsgFailedToLoadDocument, err)
	}
	return doc, nil
}

// Save replaces the registry document
func (s *Store) Save(ctx context.Context, doc *repository.Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", database.ErrMsgFailedToSaveDocument, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, upsertDocumentSQL, s.name, string(body), now); err != nil {
		return fmt.Errorf("%s: %w", database.ErrMsgFailedToSaveDocument, err)
	}
	return nil
}

// DB exposes the underlying handle for migration status checks
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}
