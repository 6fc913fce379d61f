package main

import (
	"context"
	"os"

	"eazymove/config"
	"eazymove/pkg/logger"
	"eazymove/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
	defer func() { _ = log.Sync() }()

	pg, err := postgres.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pg.Close()

	// Locations, tariffs and the admin account are system data and stay.
	_, err = pg.GetPool().Exec(context.Background(),
		"TRUNCATE TABLE orders, vehicles, drivers, customers RESTART IDENTITY CASCADE")
	if err != nil {
		log.Error("Failed to truncate tables", logger.Error(err))
		return
	}
	log.Info("Truncated orders, vehicles, drivers and customers")
}
