package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/kimhsiao/mimo/internal/capture"
	"github.com/kimhsiao/mimo/internal/config"
	"github.com/kimhsiao/mimo/internal/logging"
	"github.com/kimhsiao/mimo/internal/session"
	"github.com/kimhsiao/mimo/internal/storage"
)

func main() {
	logger := logging.New(nil)

	cfg := config.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loaded, err := config.LoadConfig("config.toml"); err == nil {
			cfg = loaded
		} else {
			logger.Warn("ignoring unreadable config.toml", "err", err)
		}
	}
	logging.SetLevel(logger, cfg.Log.Level)

	var kv storage.Store
	if cfg.Storage.Backend == "memory" {
		kv = storage.NewMemoryStore()
	} else {
		sqlite, err := storage.OpenSQLite(cfg.Storage.DataDir)
		if err != nil {
			logger.Fatal("failed to open storage", "err", err)
		}
		kv = sqlite
	}
	defer kv.Close()

	runner := NewRunner(RunnerOpts{
		Config:  cfg,
		Store:   session.NewStore(kv),
		Builder: capture.NewBuilderWith(cfg.Thumbnail.MaxDim, cfg.Thumbnail.Quality),
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "mimo",
		Usage:    "Move-in/move-out property inspection tool",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatal("command failed", "err", err)
	}
}
