package main

import (
	"context"
	"fmt"
	"io"
	"sort"
)

// Command is one CLI subcommand
type Command interface {
	Name() string
	Usage() string
	Description() string
	Run(ctx context.Context, app *App, args []string) error
}

// Registry manages the available commands
type Registry struct {
	commands map[string]Command
}

// NewRegistry creates a new command registry
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds a command to the registry
func (r *Registry) Register(cmd Command) {
	r.commands[cmd.Name()] = cmd
}

// Get retrieves a command by name
func (r *Registry) Get(name string) (Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// List returns a sorted list of all registered commands
func (r *Registry) List() []Command {
	cmds := make([]Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool {
		return cmds[i].Name() < cmds[j].Name()
	})
	return cmds
}

// PrintHelp prints the usage information
func (r *Registry) PrintHelp(w io.Writer) {
	fmt.Fprintln(w, "Usage: armorsmith <command> [args...]")
	fmt.Fprintln(w, "\nAvailable Commands:")

	cmds := r.List()
	maxLen := 0
	for _, cmd := range cmds {
		if len(cmd.Usage()) > maxLen {
			maxLen = len(cmd.Usage())
		}
	}

	for _, cmd := range cmds {
		padding := maxLen - len(cmd.Usage()) + 2
		fmt.Fprintf(w, "  %s%*s%s\n", cmd.Usage(), padding, "", cmd.Description())
	}
}

// defaultRegistry holds every armorsmith command
func defaultRegistry() *Registry {
	r := NewRegistry()
	for _, cmd := range []Command{
		&RegisterCommand{},
		&StashCommand{},
		&EquipmentCommand{},
		&AccountsCommand{},
		&GiveCommand{},
		&RemoveCommand{},
		&TransferCommand{},
		&EquipCommand{},
		&StoreCommand{},
		&DuelCommand{},
		&ResetCommand{},
		&MigrateCommand{},
	} {
		r.Register(cmd)
	}
	return r
}
