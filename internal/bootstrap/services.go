package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/armorsmith/internal/config"
	"github.com/osse101/armorsmith/internal/dice"
	"github.com/osse101/armorsmith/internal/domain"
	"github.com/osse101/armorsmith/internal/duel"
	"github.com/osse101/armorsmith/internal/item"
	"github.com/osse101/armorsmith/internal/realm"
	"github.com/osse101/armorsmith/internal/registry"
	"github.com/osse101/armorsmith/internal/repository"
	"github.com/osse101/armorsmith/internal/shop"
)

// Services holds every domain service wired over one store. This provides
// a centralized location for initialization and keeps the CLI free of
// construction details.
type Services struct {
	Catalog  *item.Catalog
	Registry registry.Service
	Duel     *duel.Engine
	Shop     shop.Service
	Realms   realm.Resolver
}

// InitializeServices loads the catalog and registry and builds the duel
// engine and shop on top of them. A nil roller is seeded from DUEL_SEED, or
// randomly when that is zero.
func InitializeServices(ctx context.Context, cfg *config.Config, store repository.Store, roller dice.Roller, log *slog.Logger) (*Services, error) {
	catalog, err := item.LoadCatalog(cfg.ItemsPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadCatalog, err)
	}

	resolver := realm.AllowAll
	if len(cfg.KnownRealms) > 0 {
		log.Debug(LogMsgRealmResolverEnabled, "realms", cfg.KnownRealms)
		resolver = realm.NewCachedResolver(realm.NewStaticResolver(cfg.KnownRealms...), cfg.RealmCacheSize, cfg.RealmCacheTTL)
	}

	reg, err := registry.NewService(ctx, store, registry.WithLogger(log), registry.WithResolver(resolver))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateRegistry, err)
	}

	if roller == nil {
		seed := cfg.DuelSeed
		if seed == 0 {
			if seed, err = dice.NewSeed(); err != nil {
				return nil, fmt.Errorf("%s: %w", ErrMsgCreateRoller, err)
			}
		}
		roller = dice.NewRoller(seed)
	}

	engine, err := duel.NewEngine(reg, roller, duel.Options{
		StartingHP:  cfg.DuelStartingHP,
		MaxRounds:   cfg.DuelMaxRounds,
		Termination: domain.DuelTermination(cfg.DuelTermination),
	}, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateDuelEngine, err)
	}

	return &Services{
		Catalog:  catalog,
		Registry: reg,
		Duel:     engine,
		Shop:     shop.NewService(catalog, reg, shop.FreeBank{}, log),
		Realms:   resolver,
	}, nil
}
