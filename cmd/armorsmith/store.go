package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/osse101/armorsmith/internal/domain"
)

var categoryTitles = map[domain.Category]string{
	domain.CategoryWeapon: "Weapons",
	domain.CategoryArmor:  "Armor",
	domain.CategoryPotion: "Potions",
}

type StoreCommand struct{}

func (c *StoreCommand) Name() string {
	return "store"
}

func (c *StoreCommand) Usage() string {
	return "store [list | buy <realm> <user> <item>]"
}

func (c *StoreCommand) Description() string {
	return "List the item shop or buy an item"
}

func (c *StoreCommand) Run(ctx context.Context, app *App, args []string) error {
	if len(args) == 0 || (len(args) == 1 && args[0] == "list") {
		return c.list(ctx, app)
	}
	if args[0] == "buy" && len(args) >= 4 {
		return c.buy(ctx, app, identity(args[1], args[2]), itemName(args[3:]))
	}
	return usageError(c)
}

func (c *StoreCommand) list(ctx context.Context, app *App) error {
	svcs, err := app.services(ctx)
	if err != nil {
		return err
	}

	printLine(app.out, "Item Shop")
	tw := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
	for _, listing := range svcs.Shop.Catalog(ctx) {
		fmt.Fprintf(tw, "\n%s\n", categoryTitles[listing.Category])
		for _, it := range listing.Items {
			fmt.Fprintf(tw, "  %s\t%d credits\t%s\n", it.Name, it.Cost, it.Stat())
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	printLine(app.out, "\nBuy using: armorsmith store buy <realm> <user> <item>")
	return nil
}

func (c *StoreCommand) buy(ctx context.Context, app *App, id domain.Identity, name string) error {
	svcs, err := app.services(ctx)
	if err != nil {
		return err
	}

	it, err := svcs.Shop.Buy(ctx, id, name)
	if err != nil {
		return err
	}
	printLine(app.out, "%s bought %s for %d credits.", app.displayName(ctx, id), it.Name, it.Cost)
	return nil
}
