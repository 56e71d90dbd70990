package main

import (
	"context"
	"time"

	"github.com/osse101/armorsmith/internal/backup"
)

const confirmFlag = "--yes"

// ResetCommand wipes a realm. Without --yes it only prints what would happen.
type ResetCommand struct{}

func (c *ResetCommand) Name() string {
	return "reset"
}

func (c *ResetCommand) Usage() string {
	return "reset <realm> [--yes]"
}

func (c *ResetCommand) Description() string {
	return "Back up and wipe every account in a realm"
}

func (c *ResetCommand) Run(ctx context.Context, app *App, args []string) error {
	if len(args) == 0 || len(args) > 2 || (len(args) == 2 && args[1] != confirmFlag) {
		return usageError(c)
	}
	realmID := args[0]

	if len(args) == 1 {
		printWarning(app.out, "This deletes every stash and all equipment in realm %q.", realmID)
		printLine(app.out, "Run `armorsmith reset %s %s` to confirm.", realmID, confirmFlag)
		return nil
	}

	svcs, err := app.services(ctx)
	if err != nil {
		return err
	}

	path := backup.Path(app.cfg.BackupDir, realmID, time.Now())
	if err := backup.Write(path, svcs.Registry.Document(ctx)); err != nil {
		return err
	}
	app.log.InfoContext(ctx, "Registry backed up", "path", path, "realm", realmID)

	if err := svcs.Registry.WipeRealm(ctx, realmID); err != nil {
		return err
	}
	printLine(app.out, "Realm %s has been reset. Backup written to %s", realmID, path)
	return nil
}

type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

func (c *MigrateCommand) Usage() string {
	return "migrate"
}

func (c *MigrateCommand) Description() string {
	return "Apply database migrations for the configured store"
}

func (c *MigrateCommand) Run(ctx context.Context, app *App, args []string) error {
	if len(args) != 0 {
		return usageError(c)
	}
	if err := app.storage.Migrate(ctx); err != nil {
		return err
	}
	printLine(app.out, "Migrations applied for the %s store.", app.storage.Driver)
	return nil
}
