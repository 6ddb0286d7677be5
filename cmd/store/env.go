package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-extras/cobraflags"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/logging"
)

const envFileFlag = "env-file"

func newEnvFileFlag() *cobraflags.StringFlag {
	return &cobraflags.StringFlag{
		Name:  envFileFlag,
		Value: ".env",
		Usage: "Env file loaded before reading the environment (missing file is ignored)",
	}
}

// setup loads configuration, installs the default logger and opens the database.
func setup(flags map[string]cobraflags.Flag) (config.Config, *slog.Logger, *gorm.DB, error) {
	cfg, err := config.Load(flags[envFileFlag].GetString())
	if err != nil {
		return config.Config{}, nil, nil, err
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	gdb, err := db.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Error("db_open_error", "driver", cfg.DatabaseDriver, "error", err)
		return config.Config{}, nil, nil, err
	}
	return cfg, logger, gdb, nil
}

func closeDB(logger *slog.Logger, gdb *gorm.DB) {
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}
}
