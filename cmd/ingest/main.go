package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"cardops/adapters/excel"
	"cardops/adapters/postgres"
	"cardops/app"
	"cardops/internal/config"
	"cardops/internal/logging"
)

func main() {
	domain := flag.String("domain", "all", "which domain to ingest: card, machine, or all")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(2)
	}
	log := logging.NewDefaultLogger()

	svc := app.NewIngestService(
		excel.NewCardExtractor(cfg.Ingest.LayoutVersion),
		excel.NewMachineExtractor(),
		excel.NewCardTableStore(),
		excel.NewMachineTableStore(),
		log,
		cfg.Ingest.Workers,
	)

	ctx := context.Background()
	var cardReport, machineReport *app.Report

	if *domain == "card" || *domain == "all" {
		report, err := svc.RunCard(ctx, cfg.Ingest.CardSourceDir, cfg.Ingest.CardOutputFile)
		if err != nil {
			log.Error("card ingest failed: %v", err)
			os.Exit(1)
		}
		cardReport = &report
		printReport(report)
	}

	if *domain == "machine" || *domain == "all" {
		report, err := svc.RunMachine(ctx, cfg.Ingest.MachineSourceDir, cfg.Ingest.MachineOutputFile)
		if err != nil {
			log.Error("machine ingest failed: %v", err)
			os.Exit(1)
		}
		machineReport = &report
		printReport(report)
	}

	if cfg.Database.URL != "" {
		if err := mirrorToDatabase(ctx, cfg, log, cardReport, machineReport); err != nil {
			log.Error("database mirror failed: %v", err)
			os.Exit(1)
		}
	}
}

func printReport(r app.Report) {
	fmt.Printf("[%s] found=%d skipped=%d processed=%d failed=%d rows=%d wrote=%v\n",
		r.Domain, r.FilesFound, r.FilesSkipped, r.FilesProcessed, r.FilesFailed, r.RowsTotal, r.Wrote)
	if r.BackupPath != "" {
		fmt.Printf("[%s] primary output was locked, saved to %s\n", r.Domain, r.BackupPath)
	}
}

// mirrorToDatabase pushes the freshly merged tables into Postgres so the
// dashboard can serve from SQL instead of re-reading workbooks. Domains that
// did not run this invocation are left untouched.
func mirrorToDatabase(ctx context.Context, cfg *config.Config, log *logging.Logger, cardReport, machineReport *app.Report) error {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer db.Close()

	if cardReport != nil {
		if err := postgres.EnsureCardSchema(ctx, db); err != nil {
			return err
		}
		records, err := excel.NewCardTableStore().Read(cfg.Ingest.CardOutputFile)
		if err != nil {
			return fmt.Errorf("reload card table: %w", err)
		}
		if err := postgres.NewCardRepository(db).ReplaceAll(ctx, records); err != nil {
			return err
		}
		log.Info("mirrored %d card records to postgres", len(records))
	}

	if machineReport != nil {
		if err := postgres.EnsureMachineSchema(ctx, db); err != nil {
			return err
		}
		records, err := excel.NewMachineTableStore().Read(cfg.Ingest.MachineOutputFile)
		if err != nil {
			return fmt.Errorf("reload machine table: %w", err)
		}
		if err := postgres.NewMachineRepository(db).ReplaceAll(ctx, records); err != nil {
			return err
		}
		log.Info("mirrored %d machine records to postgres", len(records))
	}
	return nil
}
