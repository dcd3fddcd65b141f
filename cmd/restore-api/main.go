package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smartvault/smartvault/pkg/cloud"
	"github.com/smartvault/smartvault/pkg/config"
	"github.com/smartvault/smartvault/pkg/dispatch"
	"github.com/smartvault/smartvault/pkg/gateway"
	"github.com/smartvault/smartvault/pkg/telemetry"
)

func main() {
	cfg := config.LoadFrontDoor()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger.Info("Starting restore front door", "addr", cfg.ListenAddr)

	ctx := context.Background()

	var dispatcher dispatch.Dispatcher
	switch {
	case cfg.WorkerLambdaARN != "":
		awsCfg, err := cloud.LoadAWSConfig(ctx, cfg.PrimaryRegion)
		if err != nil {
			logger.Error("Failed to load AWS config", "error", err)
			os.Exit(1)
		}
		dispatcher = dispatch.NewLambdaDispatcher(lambda.NewFromConfig(awsCfg), cfg.WorkerLambdaARN)
		logger.Info("Dispatching restores to worker Lambda", "arn", cfg.WorkerLambdaARN)
	case cfg.RedisAddr != "":
		queue, err := dispatch.NewRedisQueue(cfg.RedisAddr, cfg.RedisDB, cfg.RestoreQueueKey)
		if err != nil {
			logger.Error("Failed to connect to redis", "error", err)
			os.Exit(1)
		}
		dispatcher = queue
		logger.Info("Dispatching restores to redis queue", "addr", cfg.RedisAddr, "key", cfg.RestoreQueueKey)
	default:
		// The server still starts so health checks pass; restore requests
		// are answered with a configuration error.
		logger.Warn("No worker destination configured (WORKER_LAMBDA_ARN or REDIS_ADDR); restore requests will be rejected")
	}

	handler := &gateway.Handler{
		Dispatcher: dispatcher,
		Logger:     telemetry.NewSlogAdapterWith(logger),
		Metrics:    telemetry.NewPrometheusMetrics(),
	}

	// Auth and rate limiting guard the restore endpoint only; health and
	// metrics stay reachable for probes and scrapers.
	restoreHandler := gateway.AuthMiddleware(logger,
		gateway.RateLimitMiddleware(config.GetEnvInt("RATE_LIMIT_RPS", 10), config.GetEnvInt("RATE_LIMIT_BURST", 20),
			http.HandlerFunc(handler.HandleRestore)))

	mux := http.NewServeMux()
	mux.Handle("/restore", restoreHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
}
