package main

import (
	"context"
	"os"
	"time"

	"forecourt/internal/amqp"
	"forecourt/internal/cli"
	"forecourt/internal/log"
	"forecourt/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	logger.Info("Starting forecourt-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	importWorker := worker.NewImportWorker(repo, 0)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	logger.Info("Consuming import jobs", "queue", cfg.AMQPQueue)
	if err := amqpClient.ConsumeImportJobs(ctx, importWorker.HandleImportJob); err != nil && err != context.Canceled {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitWithTimeout(logger, 10*time.Second, func() {
		if err := amqpClient.Close(); err != nil {
			logger.Error("AMQP close error", log.FieldError, err)
		}
	})
}
