package main

import "context"

// GiveCommand hands out catalog items without charging for them
type GiveCommand struct{}

func (c *GiveCommand) Name() string {
	return "give"
}

func (c *GiveCommand) Usage() string {
	return "give <realm> <user> <item>"
}

func (c *GiveCommand) Description() string {
	return "Give a catalog item to a user"
}

func (c *GiveCommand) Run(ctx context.Context, app *App, args []string) error {
	if len(args) < 3 {
		return usageError(c)
	}
	svcs, err := app.services(ctx)
	if err != nil {
		return err
	}

	id := identity(args[0], args[1])
	it, err := svcs.Catalog.Lookup(itemName(args[2:]))
	if err != nil {
		return err
	}
	if err := svcs.Registry.GiveItem(ctx, id, it); err != nil {
		return err
	}
	printLine(app.out, "%s has been given to %s", it.Name, app.displayName(ctx, id))
	return nil
}

type RemoveCommand struct{}

func (c *RemoveCommand) Name() string {
	return "remove"
}

func (c *RemoveCommand) Usage() string {
	return "remove <realm> <user> <item>"
}

func (c *RemoveCommand) Description() string {
	return "Remove an item from a stash (and unequip it)"
}

func (c *RemoveCommand) Run(ctx context.Context, app *App, args []string) error {
	if len(args) < 3 {
		return usageError(c)
	}
	svcs, err := app.services(ctx)
	if err != nil {
		return err
	}

	id := identity(args[0], args[1])
	it, err := app.resolveItem(ctx, &id, itemName(args[2:]))
	if err != nil {
		return err
	}
	if err := svcs.Registry.RemoveItem(ctx, id, it); err != nil {
		return err
	}
	printLine(app.out, "%s has been removed from %s's stash.", it.Name, app.displayName(ctx, id))
	return nil
}

type TransferCommand struct{}

func (c *TransferCommand) Name() string {
	return "transfer"
}

func (c *TransferCommand) Usage() string {
	return "transfer <realm> <from> <to> <item>"
}

func (c *TransferCommand) Description() string {
	return "Move an item between two stashes"
}

func (c *TransferCommand) Run(ctx context.Context, app *App, args []string) error {
	if len(args) < 4 {
		return usageError(c)
	}
	svcs, err := app.services(ctx)
	if err != nil {
		return err
	}

	sender := identity(args[0], args[1])
	receiver := identity(args[0], args[2])
	it, err := app.resolveItem(ctx, &sender, itemName(args[3:]))
	if err != nil {
		return err
	}
	if err := svcs.Registry.TransferItem(ctx, sender, receiver, it); err != nil {
		return err
	}
	printLine(app.out, "%s has been transferred to %s's stash.", it.Name, app.displayName(ctx, receiver))
	return nil
}

type EquipCommand struct{}

func (c *EquipCommand) Name() string {
	return "equip"
}

func (c *EquipCommand) Usage() string {
	return "equip <realm> <user> <item>"
}

func (c *EquipCommand) Description() string {
	return "Equip a stash item so it can be used in fights"
}

func (c *EquipCommand) Run(ctx context.Context, app *App, args []string) error {
	if len(args) < 3 {
		return usageError(c)
	}
	svcs, err := app.services(ctx)
	if err != nil {
		return err
	}

	id := identity(args[0], args[1])
	it, err := app.resolveItem(ctx, &id, itemName(args[2:]))
	if err != nil {
		return err
	}
	if err := svcs.Registry.Equip(ctx, id, it); err != nil {
		return err
	}
	printLine(app.out, "%s equipped %s", app.displayName(ctx, id), it.Name)
	return nil
}
