package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/electr1fy0/knotes/config"
	"github.com/electr1fy0/knotes/logging"
	"github.com/electr1fy0/knotes/model"
	"github.com/electr1fy0/knotes/storage"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "knotes:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("knotes", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	showVersion := fs.Bool("version", false, "print version and exit")
	initConfig := fs.Bool("init-config", false, "write the default config file and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Println("knotes", version)
		return nil
	}
	if *initConfig {
		path, _ := fs.GetString("config")
		if path == "" {
			p, err := config.DefaultFile()
			if err != nil {
				return err
			}
			path = p
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Println("wrote", path)
		return nil
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.Open(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closeLog()

	kv, err := storage.OpenKV(cfg.StorageOptions())
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Backend, err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logger.Error("close storage", "err", err)
		}
	}()

	adapter := storage.NewAdapter(kv)
	notes, seeded, err := storage.LoadOrSeed(adapter, logger)
	if err != nil {
		if errors.Is(err, storage.ErrLocked) || errors.Is(err, storage.ErrUnreadable) {
			return fmt.Errorf("%w: stored notes left untouched, check storage.passphrase", err)
		}
		return err
	}

	nb := storage.NewNotebook(adapter, notes, storage.WithLogger(logger))
	if seeded {
		if err := nb.Save(); err != nil {
			logger.Warn("persist seed notes", "err", err)
		}
	}
	logger.Info("notebook loaded", slog.String("backend", cfg.Storage.Backend), slog.Int("notes", nb.Len()), slog.Bool("seeded", seeded))

	p := tea.NewProgram(model.New(nb, model.Options{
		Logger:     logger,
		DateFormat: cfg.UI.DateFormat,
	}), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
