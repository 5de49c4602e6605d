// Command sheets-export is a one-shot exporter: it signs in to the finance
// backend, pulls the user's transactions, and appends them to the configured
// Google Sheet. Useful for cron jobs and for backfills without the web UI.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"aimms/internal/api"
	"aimms/internal/cli"
	"aimms/internal/export"
	"aimms/internal/log"
)

func main() {
	email := flag.String("email", os.Getenv("AIMMS_EMAIL"), "account email")
	password := flag.String("password", os.Getenv("AIMMS_PASSWORD"), "account password")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall run timeout")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentExport)
	cfg := cli.LoadAndValidateConfig(logger)

	if *email == "" || *password == "" {
		logger.Error("Email and password are required (flags or AIMMS_EMAIL/AIMMS_PASSWORD)")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	exporter, err := export.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize Sheets exporter", "error", err)
		os.Exit(1)
	}

	client := api.NewClient(api.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout}, logger.Logger)

	result, err := client.UserLogin(ctx, *email, *password)
	if err != nil {
		logger.Error("Login failed", "error", err, "email", *email)
		os.Exit(1)
	}

	txns, err := client.UserTransactions(ctx, result.Token, result.UserID)
	if err != nil {
		logger.Error("Failed to fetch transactions", "error", err)
		os.Exit(1)
	}
	if len(txns) == 0 {
		logger.Info("No transactions to export")
		return
	}

	n, err := exporter.ExportTransactions(ctx, txns)
	if err != nil {
		logger.Error("Export failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Export complete", "rows", n, "spreadsheet_id", cfg.GoogleSpreadsheetID)
}
