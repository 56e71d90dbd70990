package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/osse101/armorsmith/internal/domain"
)

type RegisterCommand struct{}

func (c *RegisterCommand) Name() string {
	return "register"
}

func (c *RegisterCommand) Usage() string {
	return "register <realm> <user> <name>"
}

func (c *RegisterCommand) Description() string {
	return "Open a stash with the Armorsmith"
}

func (c *RegisterCommand) Run(ctx context.Context, app *App, args []string) error {
	if len(args) < 3 {
		return usageError(c)
	}
	svcs, err := app.services(ctx)
	if err != nil {
		return err
	}

	acc, err := svcs.Registry.CreateAccount(ctx, identity(args[0], args[1]), strings.Join(args[2:], " "))
	if err != nil {
		return err
	}
	printLine(app.out, "%s Stash opened.", acc.Name)
	return nil
}

type StashCommand struct{}

func (c *StashCommand) Name() string {
	return "stash"
}

func (c *StashCommand) Usage() string {
	return "stash <realm> <user>"
}

func (c *StashCommand) Description() string {
	return "Show a user's stash"
}

func (c *StashCommand) Run(ctx context.Context, app *App, args []string) error {
	if len(args) != 2 {
		return usageError(c)
	}
	svcs, err := app.services(ctx)
	if err != nil {
		return err
	}

	id := identity(args[0], args[1])
	items, err := svcs.Registry.Stash(ctx, id)
	if err != nil {
		return err
	}
	printLine(app.out, "%s's stash contains: %s", app.displayName(ctx, id), joinItems(items))
	return nil
}

type EquipmentCommand struct{}

func (c *EquipmentCommand) Name() string {
	return "equipment"
}

func (c *EquipmentCommand) Usage() string {
	return "equipment <realm> <user>"
}

func (c *EquipmentCommand) Description() string {
	return "Show a user's equipped items"
}

func (c *EquipmentCommand) Run(ctx context.Context, app *App, args []string) error {
	if len(args) != 2 {
		return usageError(c)
	}
	svcs, err := app.services(ctx)
	if err != nil {
		return err
	}

	acc, err := svcs.Registry.GetAccount(ctx, identity(args[0], args[1]))
	if err != nil {
		return err
	}
	printLine(app.out, "%s has equipped: %s", acc.Name, joinItems(acc.Equipment.Items()))
	return nil
}

type AccountsCommand struct{}

func (c *AccountsCommand) Name() string {
	return "accounts"
}

func (c *AccountsCommand) Usage() string {
	return "accounts [realm]"
}

func (c *AccountsCommand) Description() string {
	return "List accounts, oldest first"
}

func (c *AccountsCommand) Run(ctx context.Context, app *App, args []string) error {
	if len(args) > 1 {
		return usageError(c)
	}
	svcs, err := app.services(ctx)
	if err != nil {
		return err
	}

	var accounts []*domain.Account
	if len(args) == 1 {
		accounts, err = svcs.Registry.ListRealmAccounts(ctx, args[0])
	} else {
		accounts, err = svcs.Registry.ListAllAccounts(ctx)
	}
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		printLine(app.out, "No accounts.")
		return nil
	}

	tw := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "REALM\tUSER\tNAME\tCREATED\tITEMS")
	for _, acc := range accounts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			acc.Realm, acc.UserID, acc.Name, acc.CreatedAt.Format(domain.TimestampLayout), acc.Stash.Len())
	}
	return tw.Flush()
}
