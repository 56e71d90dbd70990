package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
	goosedb "github.com/pressly/goose/v3/database"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// Dialect selects which embedded migration set to apply
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Migrate applies every pending embedded migration for dialect to db
func Migrate(ctx context.Context, db *sql.DB, dialect Dialect) error {
	provider, err := newProvider(db, dialect)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMigrate, err)
	}
	for _, r := range results {
		slog.Default().Info(LogMsgAppliedMigration,
			"dialect", string(dialect),
			"version", r.Source.Version,
			"duration", r.Duration)
	}
	return nil
}

// MigrationVersion returns the current schema version of db
func MigrationVersion(ctx context.Context, db *sql.DB, dialect Dialect) (int64, error) {
	provider, err := newProvider(db, dialect)
	if err != nil {
		return 0, err
	}
	return provider.GetDBVersion(ctx)
}

func newProvider(db *sql.DB, dialect Dialect) (*goose.Provider, error) {
	var gd goosedb.Dialect
	switch dialect {
	case DialectPostgres:
		gd = goosedb.DialectPostgres
	case DialectSQLite:
		gd = goosedb.DialectSQLite3
	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownDialect, dialect)
	}

	sub, err := fs.Sub(migrationFS, "migrations/"+string(dialect))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToMigrate, err)
	}

	provider, err := goose.NewProvider(gd, db, sub)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToMigrate, err)
	}
	return provider, nil
}
