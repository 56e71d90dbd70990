package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/armorsmith/internal/config"
	"github.com/osse101/armorsmith/internal/database"
	"github.com/osse101/armorsmith/internal/database/postgres"
	"github.com/osse101/armorsmith/internal/database/sqlite"
	"github.com/osse101/armorsmith/internal/repository"
	"github.com/osse101/armorsmith/internal/storage/jsonfile"
)

// Storage is the registry store selected by STORE_DRIVER plus its teardown
type Storage struct {
	Store   repository.Store
	Driver  string
	migrate func(ctx context.Context) error
	close   func() error
}

// OpenStore opens the configured store. SQLite applies its migrations on
// open; postgres needs an explicit Migrate.
func OpenStore(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverJSON:
		slog.Debug(LogMsgStoreOpened, "driver", cfg.StoreDriver, "path", cfg.InventoryPath)
		return &Storage{Store: jsonfile.New(cfg.InventoryPath), Driver: cfg.StoreDriver}, nil

	case config.StoreDriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgOpenStore, err)
		}
		slog.Debug(LogMsgStoreOpened, "driver", cfg.StoreDriver, "path", cfg.SQLitePath)
		return &Storage{Store: store, Driver: cfg.StoreDriver, close: store.Close}, nil

	case config.StoreDriverPostgres:
		pool, err := database.NewPool(ctx, database.PoolConfig{
			ConnString:      cfg.DBConnString(),
			MaxConns:        cfg.DBMaxConns,
			MaxConnIdle:     cfg.DBMaxConnIdle,
			MaxConnLifetime: cfg.DBMaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgOpenStore, err)
		}
		store := postgres.NewStore(pool)
		slog.Debug(LogMsgStoreOpened, "driver", cfg.StoreDriver, "host", cfg.DBHost, "db", cfg.DBName)
		return &Storage{
			Store:   store,
			Driver:  cfg.StoreDriver,
			migrate: store.Migrate,
			close: func() error {
				store.Close()
				return nil
			},
		}, nil
	}
	return nil, fmt.Errorf("%s: %q", ErrMsgUnknownDriver, cfg.StoreDriver)
}

// Migrate brings the store's schema up to date. The JSON file store has no
// schema and sqlite migrated when it was opened.
func (s *Storage) Migrate(ctx context.Context) error {
	if s.migrate == nil {
		if s.Driver == config.StoreDriverJSON {
			slog.Info(LogMsgMigrationsSkipped)
		}
		return nil
	}
	return s.migrate(ctx)
}

// Close releases the store's resources
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}
