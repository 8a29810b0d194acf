package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/graeme-hill/calcstuff-go/lib"
)

var (
	configFile = flag.String("config", "", "path to a YAML config file")
	dsn        = flag.String("dsn", "", "postgres connection string (overrides history.dsn from config)")
)

func main() {
	flag.Parse()

	cfg, err := lib.LoadConfig(*configFile)
	if err != nil {
		panic(err)
	}
	if *dsn != "" {
		cfg.History.DSN = *dsn
	}
	if cfg.History.DSN == "" {
		fmt.Println("missing value: dsn")
		os.Exit(1)
	}

	logger, closer, err := lib.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer closer.Close()

	migrations, err := lib.HistoryMigrations()
	if err != nil {
		panic(err)
	}

	db, err := sql.Open("postgres", cfg.History.DSN)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ctx := context.Background()
	applied, err := lib.RunMigrations(ctx, db, migrations)
	for _, name := range applied {
		logger.Info().Str("migration", name).Msg("applied")
	}
	if err != nil {
		logger.Error().Err(err).Msg("migration failed")
		os.Exit(1)
	}
	logger.Info().Int("applied", len(applied)).Int("known", len(migrations)).Msg("migrations up to date")
}
