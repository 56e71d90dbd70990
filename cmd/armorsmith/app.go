package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/osse101/armorsmith/internal/bootstrap"
	"github.com/osse101/armorsmith/internal/config"
	"github.com/osse101/armorsmith/internal/domain"
)

// App carries what every command needs. Services are built on first use so
// that `migrate` can run before the registry loads.
type App struct {
	cfg     *config.Config
	storage *bootstrap.Storage
	log     *slog.Logger
	out     io.Writer
	svcs    *bootstrap.Services
}

func (a *App) services(ctx context.Context) (*bootstrap.Services, error) {
	if a.svcs != nil {
		return a.svcs, nil
	}
	svcs, err := bootstrap.InitializeServices(ctx, a.cfg, a.storage.Store, nil, a.log)
	if err != nil {
		return nil, err
	}
	a.svcs = svcs
	return svcs, nil
}

func identity(realm, user string) domain.Identity {
	return domain.Identity{Realm: realm, User: user}
}

// itemName joins the trailing arguments so names with spaces need no quoting
func itemName(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// resolveItem finds name in the catalog, then in owner's stash so items
// dropped from the catalog can still be handled. A miss carries the
// case-insensitive suggestions.
func (a *App) resolveItem(ctx context.Context, owner *domain.Identity, name string) (domain.Item, error) {
	svcs, err := a.services(ctx)
	if err != nil {
		return domain.Item{}, err
	}

	it, err := svcs.Catalog.Lookup(name)
	if err == nil {
		return it, nil
	}
	if !errors.Is(err, domain.ErrItemNotFound) {
		return domain.Item{}, err
	}

	if owner != nil {
		if acc, accErr := svcs.Registry.GetAccount(ctx, *owner); accErr == nil {
			if stored, ok := acc.Stash.Get(name); ok {
				return stored, nil
			}
		}
	}

	if suggestions := svcs.Catalog.Suggest(name); len(suggestions) > 0 {
		return domain.Item{}, fmt.Errorf("%w (did you mean %s?)", err, strings.Join(suggestions, ", "))
	}
	return domain.Item{}, err
}

// displayName returns the account's name, falling back to the user id
func (a *App) displayName(ctx context.Context, id domain.Identity) string {
	svcs, err := a.services(ctx)
	if err != nil {
		return id.User
	}
	acc, err := svcs.Registry.GetAccount(ctx, id)
	if err != nil || acc.Name == "" {
		return id.User
	}
	return acc.Name
}

func joinItems(items []domain.Item) string {
	if len(items) == 0 {
		return "nothing"
	}
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.Name
	}
	return strings.Join(names, ", ")
}
