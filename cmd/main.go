package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Lalka12235/TuneWave/internal/session"
	"github.com/Lalka12235/TuneWave/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	var store session.Store
	sessionPath := config.Session.Path
	if sessionPath == "" {
		if p, err := session.DefaultPath(); err == nil {
			sessionPath = p
		}
	}
	if sessionPath != "" {
		if boltStore, err := session.OpenBolt(sessionPath); err == nil {
			store = boltStore
			defer boltStore.Close()
		} else {
			logger.Warnf("failed to open session store, tokens will not persist: %v", err)
		}
	}
	if store == nil {
		store = session.NewMemoryStore("")
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Session:    store,
		Logger:     logger,
	})
	defer func() {
		if runner.db != nil {
			runner.db.Close()
		}
	}()

	app := &cli.Command{
		Name:     "tunewave",
		Usage:    "Listen to music together in shared rooms",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create a config file and initialize the snapshot database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}
