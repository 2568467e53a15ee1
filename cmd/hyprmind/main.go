// Package main is the entry point for the hyprmind per-window tray daemon.
// One hyprmind process runs for each minimized window; the hyprmin CLI spawns
// it detached right after hiding the window.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hyprmin-io/hyprmin/internal/config"
	"github.com/hyprmin-io/hyprmin/internal/daemon"
	"github.com/hyprmin-io/hyprmin/internal/hypr"
	"github.com/hyprmin-io/hyprmin/internal/logging"
	"github.com/hyprmin-io/hyprmin/internal/stack"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "hyprmind: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var rec stack.Record
	flag.StringVar(&rec.Address, "address", "", "address of the minimized window")
	flag.IntVar(&rec.Workspace, "workspace", 0, "workspace the window came from")
	flag.StringVar(&rec.Title, "title", "", "window title at minimize time")
	flag.StringVar(&rec.Class, "class", "", "window class at minimize time")
	flag.Parse()

	if rec.Address == "" {
		return fmt.Errorf("-address is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, closeLog, err := logging.Open(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer closeLog()

	stackPath, err := config.StackFile(cfg.StackBaseDirectory)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d := daemon.New(cfg, stack.NewStore(stackPath), hypr.NewLiveClient(), rec, log)
	if err := d.Run(ctx); err != nil {
		log.Error().Err(err).Msg("daemon exited with error")
		return err
	}
	return nil
}
