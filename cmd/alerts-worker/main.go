package main

import (
	"context"
	"os"
	"time"

	"aimms/internal/amqp"
	"aimms/internal/cli"
	"aimms/internal/log"
	"aimms/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting alerts worker", "queue", cfg.AMQPQueue)

	store := cli.InitStore(logger, cfg.SQLiteDBPath)
	defer store.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err, "url", cfg.AMQPURL)
		os.Exit(1)
	}
	defer amqpClient.Close()

	alertsWorker := worker.NewAlertsWorker(store, cfg.AlertRetention)

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, func() {
		if err := amqpClient.Close(); err != nil {
			logger.Error("AMQP close error", "error", err)
		}
	})

	go alertsWorker.RunPruneLoop(ctx, cfg.PruneInterval)

	go func() {
		err := amqpClient.ConsumeAlertEvents(ctx, func(event *amqp.AlertEvent) error {
			return alertsWorker.HandleAlertEvent(ctx, event)
		})
		if err != nil && err != context.Canceled {
			logger.Error("Alert consumption failed", "error", err)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
