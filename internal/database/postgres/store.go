// Package postgres stores the registry document in a PostgreSQL table.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/osse101/armorsmith/internal/database"
	"github.com/osse101/armorsmith/internal/repository"
)

const (
	selectDocumentSQL = `SELECT body::text FROM registry_documents WHERE name = $1`
	upsertDocumentSQL = `
		INSERT INTO registry_documents (name, body, updated_at)
		VALUES ($1, $2::json, NOW())
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`
)

// Store implements repository.Store on top of a pgx pool
type Store struct {
	pool *pgxpool.Pool
	name string
}

// NewStore creates a store that keeps the registry in the row named
// database.RegistryDocumentName
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, name: database.RegistryDocumentName}
}

// Migrate applies the embedded postgres migrations through the pool
func (s *Store) Migrate(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer db.Close()
	return database.Migrate(ctx, db, database.DialectPostgres)
}

// Load reads the registry document. A missing row loads as an empty document.
func (s *Store) Load(ctx context.Context) (*repository.Document, error) {
	var body string
	err := s.pool.QueryRow(ctx, selectDocumentSQL, s.name).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
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
	if _, err := s.pool.Exec(ctx, upsertDocumentSQL, s.name, string(body)); err != nil {
		return fmt.Errorf("%s: %w", database.ErrMsgFailedToSaveDocument, err)
	}
	return nil
}

// Close releases the pool
func (s *Store) Close() {
	s.pool.Close()
}
