package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/graeme-hill/clex-go/config"
	"github.com/graeme-hill/clex-go/lib"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	flag.Parse()

	cfg := config.Default()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			logger.Error("failed to load config", slog.Any("error", err))
			os.Exit(1)
		}
	}

	store, err := lib.OpenTokenStore(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to open token store", slog.Any("error", err))
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.RunMigrations(ctx); err != nil {
		logger.Error("failed to migrate token store", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("token store is up to date", slog.String("driver", cfg.Database.Driver))
}
