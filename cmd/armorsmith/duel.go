package main

import (
	"context"

	"github.com/osse101/armorsmith/internal/domain"
)

type DuelCommand struct{}

func (c *DuelCommand) Name() string {
	return "duel"
}

func (c *DuelCommand) Usage() string {
	return "duel <realm> <challenger> <opponent>"
}

func (c *DuelCommand) Description() string {
	return "Fight a duel with equipped gear"
}

func (c *DuelCommand) Run(ctx context.Context, app *App, args []string) error {
	if len(args) != 3 {
		return usageError(c)
	}
	svcs, err := app.services(ctx)
	if err != nil {
		return err
	}

	challenger := identity(args[0], args[1])
	opponent := identity(args[0], args[2])
	result, err := svcs.Duel.Fight(ctx, challenger, opponent, func(ev domain.DuelEvent) {
		printLine(app.out, "%s", ev.Narrate())
	})
	if err != nil {
		return err
	}

	if result.Capped {
		printWarning(app.out, "The duel was called after %d rounds.", result.Rounds)
	}
	printLine(app.out, "%s", result.Summary())
	return nil
}
