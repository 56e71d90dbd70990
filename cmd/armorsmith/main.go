// Command armorsmith is the operator CLI for the armorsmith registry: it
// manages stashes, runs the shop and resolves duels.
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/armorsmith/internal/bootstrap"
	"github.com/osse101/armorsmith/internal/config"
	"github.com/osse101/armorsmith/internal/logger"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, config.Load)
	stop()
	os.Exit(code)
}

// run executes one command and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer, loadConfig func() (*config.Config, error)) int {
	registry := defaultRegistry()
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		registry.PrintHelp(stdout)
		if len(args) == 0 {
			return exitUsage
		}
		return exitOK
	}

	cmd, ok := registry.Get(args[0])
	if !ok {
		printError(stderr, "unknown command %q", args[0])
		registry.PrintHelp(stderr)
		return exitUsage
	}

	cfg, err := loadConfig()
	if err != nil {
		printError(stderr, "%v", err)
		return exitError
	}

	logFile, err := bootstrap.SetupLogger(cfg, stderr)
	if err != nil {
		printError(stderr, "%v", err)
		return exitError
	}

	ctx = logger.WithRequestID(ctx, logger.GenerateRequestID())
	log := logger.FromContext(ctx).With("command", cmd.Name())
	log.Debug(bootstrap.LogMsgStartingArmorsmith, "version", cfg.Version)

	storage, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Error("Failed to open store", "error", err)
		printError(stdout, "%s", describe(err))
		bootstrap.GracefulShutdown(bootstrap.ShutdownComponents{LogFile: logFile})
		return exitError
	}
	defer bootstrap.GracefulShutdown(bootstrap.ShutdownComponents{
		Storage:         storage,
		MetricsTextfile: cfg.MetricsTextfile,
		LogFile:         logFile,
	})

	app := &App{cfg: cfg, storage: storage, log: log, out: stdout}
	if err := cmd.Run(ctx, app, args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			printError(stderr, "%v", err)
			return exitUsage
		}
		log.Debug("Command failed", "error", err)
		printError(stdout, "%s", describe(err))
		return exitError
	}
	return exitOK
}
