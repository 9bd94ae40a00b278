package main

import (
	"context"
	"os"
	"time"

	"forecourt/internal/cli"
	"forecourt/internal/export"
	gsheet "forecourt/internal/export/google"
	mem "forecourt/internal/export/memory"
	"forecourt/internal/log"
	"forecourt/internal/scheduler"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentExport)
	logger.Info("Starting export-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Without a spreadsheet the worker still runs against an in-memory
	// sink, which keeps local development honest about the export path.
	var writer export.SaleWriter
	if cfg.GoogleSpreadsheetID != "" {
		client, err := gsheet.NewFromConfig(context.Background(), *cfg)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		writer = client
		logger.Info("Google Sheets export initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		writer = mem.New()
		logger.Info("Google Sheets disabled - exporting to in-memory sink")
	}

	exportWorker := export.NewWorker(repo, writer)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	if cfg.ExportOnStart {
		if err := exportWorker.RunYesterday(ctx); err != nil {
			logger.Error("Startup export failed", log.FieldError, err)
		}
	}

	sched := scheduler.New()
	if err := sched.Add(cfg.ExportCron, "daily-sales-export", exportWorker.RunYesterday); err != nil {
		logger.Error("Failed to schedule export", log.FieldError, err, "cron", cfg.ExportCron)
		os.Exit(1)
	}
	sched.Start()
	logger.Info("Export scheduled", "cron", cfg.ExportCron)

	<-ctx.Done()

	cli.WaitWithTimeout(logger, 10*time.Second, sched.Stop)
}
