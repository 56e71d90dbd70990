package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/osse101/armorsmith/internal/domain"
)

// errUsage marks bad command-line arguments
var errUsage = errors.New("usage")

func usageError(cmd Command) error {
	return fmt.Errorf("%w: armorsmith %s", errUsage, cmd.Usage())
}

// UI helpers

func printLine(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, format+"\n", a...)
}

func printWarning(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, "⚠ "+format+"\n", a...)
}

func printError(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, "✗ "+format+"\n", a...)
}

// friendlyErrors maps domain failures to the replies players see
var friendlyErrors = []struct {
	err error
	msg string
}{
	{domain.ErrAccountAlreadyExists, "You already have a stash with the Armorsmith."},
	{domain.ErrNoAccount, "That user has no stash account."},
	{domain.ErrSameSenderAndReceiver, "You can't transfer to yourself."},
	{domain.ErrMissingWeapon, "Both parties must have a weapon equipped!"},
	{domain.ErrInsufficientFunds, "You do not have enough credits for that."},
	{domain.ErrPersistence, "The Armorsmith could not save that change, nothing was modified."},
}

// describe renders err for the terminal
func describe(err error) string {
	for _, f := range friendlyErrors {
		if errors.Is(err, f.err) {
			return f.msg
		}
	}
	return err.Error()
}
