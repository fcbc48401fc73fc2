package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"cardops/adapters/excel"
	"cardops/adapters/postgres"
	"cardops/domain/card"
	"cardops/domain/machine"
	"cardops/internal/config"
	"cardops/internal/logging"
	"cardops/ui"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(2)
	}
	log := logging.NewDefaultLogger()

	cards, machines, err := loadTables(cfg, log)
	if err != nil {
		log.Error("failed to load tables: %v", err)
		os.Exit(1)
	}
	log.Info("loaded %d card records and %d machine records", len(cards), len(machines))

	app := ui.NewApp(cards, machines, log)
	if err := app.Start(":" + cfg.Server.Port); err != nil {
		log.Error("server stopped: %v", err)
		os.Exit(1)
	}
}

// loadTables reads the merged tables, preferring the Postgres mirror when
// configured and falling back to the workbook outputs otherwise. A missing
// table is an empty dashboard, not a startup failure.
func loadTables(cfg *config.Config, log *logging.Logger) ([]card.Record, []machine.Record, error) {
	if cfg.Database.URL != "" {
		return loadFromDatabase(cfg)
	}

	cards, err := excel.NewCardTableStore().Read(cfg.Ingest.CardOutputFile)
	if err != nil {
		log.Warn("card table %s unavailable: %v", cfg.Ingest.CardOutputFile, err)
	}
	machines, err := excel.NewMachineTableStore().Read(cfg.Ingest.MachineOutputFile)
	if err != nil {
		log.Warn("machine table %s unavailable: %v", cfg.Ingest.MachineOutputFile, err)
	}
	return cards, machines, nil
}

func loadFromDatabase(cfg *config.Config) ([]card.Record, []machine.Record, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := postgres.EnsureCardSchema(ctx, db); err != nil {
		return nil, nil, err
	}
	if err := postgres.EnsureMachineSchema(ctx, db); err != nil {
		return nil, nil, err
	}

	cards, err := postgres.NewCardRepository(db).List(ctx)
	if err != nil {
		return nil, nil, err
	}
	machines, err := postgres.NewMachineRepository(db).List(ctx)
	if err != nil {
		return nil, nil, err
	}
	return cards, machines, nil
}
