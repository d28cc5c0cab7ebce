package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/opsgate/opsgate/internal/config"
	"github.com/opsgate/opsgate/internal/db/migrate"
	"github.com/opsgate/opsgate/internal/logger"
)

func main() {
	_ = godotenv.Load()

	var configFolder, direction string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.StringVar(&direction, "direction", "up", "migration direction: up or down")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.LogLevel, cfg.Public.LogJSON)

	pg := cfg.Private.Pg
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		pg.User, pg.Password, pg.Host, pg.Port, pg.Dbname)

	if err := migrate.Run(dsn, direction); err != nil {
		logger.Log.Error("migration failed", "direction", direction, "error", err)
		os.Exit(1)
	}
	logger.Log.Info("migrations applied", "direction", direction)
}
