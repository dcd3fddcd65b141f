package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/smartvault/smartvault/pkg/cloud"
	"github.com/smartvault/smartvault/pkg/config"
	"github.com/smartvault/smartvault/pkg/dispatch"
	"github.com/smartvault/smartvault/pkg/notify"
	"github.com/smartvault/smartvault/pkg/restore"
	"github.com/smartvault/smartvault/pkg/telemetry"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadWorker()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error("REDIS_ADDR is not set")
		os.Exit(1)
	}
	logger.Info("Starting restore worker", "region", cfg.PrimaryRegion, "queue", cfg.RestoreQueueKey)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue, err := dispatch.NewRedisQueue(cfg.RedisAddr, cfg.RedisDB, cfg.RestoreQueueKey)
	if err != nil {
		logger.Error("Failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer queue.Close()

	compute, err := cloud.NewEC2Compute(ctx, cfg.PrimaryRegion)
	if err != nil {
		logger.Error("Failed to create EC2 client", "error", err)
		os.Exit(1)
	}

	awsCfg, err := cloud.LoadAWSConfig(ctx, cfg.PrimaryRegion)
	if err != nil {
		logger.Error("Failed to load AWS config", "error", err)
		os.Exit(1)
	}

	tlogger := telemetry.NewSlogAdapterWith(logger)
	worker := &restore.Worker{
		Compute:  compute,
		Notifier: notify.NewSNSNotifier(sns.NewFromConfig(awsCfg), cfg.SNSTopicARN, tlogger),
		Logger:   tlogger,
		Metrics:  telemetry.NewPrometheusMetrics(),
		Wait:     cloud.WaitConfig{Interval: cfg.WaitInterval, MaxAttempts: cfg.WaitMaxAttempts},
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("Shutting down")
		cancel()
	}()

	for {
		req, err := queue.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Failed to receive restore request", "error", err)
			time.Sleep(time.Second)
			continue
		}

		outcome := worker.Restore(ctx, req)
		logger.Info("Restore finished",
			"request_id", outcome.RequestID,
			"status", string(outcome.Status),
			"volume_id", string(outcome.VolumeID),
			"instance_id", string(outcome.InstanceID),
		)
	}
}
