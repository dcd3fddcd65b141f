package config

import (
	"os"
	"strconv"
	"time"

	"github.com/smartvault/smartvault/pkg/domain"
)

// Config is assembled once at the process boundary and passed into the
// orchestrator, worker and front door. Nothing else reads the environment.
type Config struct {
	// Backup cycle
	RetentionDays  int
	BackupTagKey   string
	BackupTagValue string
	PrimaryRegion  string
	DRRegion       string
	DRKMSKeyARN    string

	// Notification channel. Empty means notifications are skipped.
	SNSTopicARN string

	// Front door / worker handoff. Exactly one of these is expected:
	// a worker Lambda ARN for async invoke, or a Redis address for the
	// self-hosted queue.
	WorkerLambdaARN string
	RedisAddr       string
	RedisDB         int
	RestoreQueueKey string

	// Front door server
	ListenAddr string

	// Bounded polling
	WaitInterval    time.Duration
	WaitMaxAttempts int
}

// LoadBackup reads the variables the backup orchestrator requires.
// Missing required values yield a config-kind error, which the caller
// reports through the notifier before exiting.
func LoadBackup() (*Config, error) {
	cfg := &Config{
		SNSTopicARN:     os.Getenv("SNS_TOPIC_ARN"),
		PrimaryRegion:   os.Getenv("AWS_REGION"),
		WaitInterval:    getEnvDuration("WAIT_INTERVAL", 15*time.Second),
		WaitMaxAttempts: GetEnvInt("WAIT_MAX_ATTEMPTS", 40),
	}

	var err error
	if cfg.RetentionDays, err = requireInt("RETENTION_DAYS"); err != nil {
		return nil, err
	}
	if cfg.BackupTagKey, err = require("BACKUP_TAG_KEY"); err != nil {
		return nil, err
	}
	if cfg.BackupTagValue, err = require("BACKUP_TAG_VALUE"); err != nil {
		return nil, err
	}
	if cfg.DRRegion, err = require("DR_REGION"); err != nil {
		return nil, err
	}
	if cfg.DRKMSKeyARN, err = require("DR_KMS_KEY_ARN"); err != nil {
		return nil, err
	}
	if cfg.PrimaryRegion == "" {
		return nil, domain.Ef(domain.KindConfig, "config.LoadBackup", "AWS_REGION is not set")
	}
	return cfg, nil
}

// LoadFrontDoor reads the variables the restore front door requires.
// The worker destination is deliberately not required here: the handler
// reports its absence per request so the server can still start and serve
// health checks.
func LoadFrontDoor() *Config {
	return &Config{
		PrimaryRegion:   os.Getenv("AWS_REGION"),
		WorkerLambdaARN: os.Getenv("WORKER_LAMBDA_ARN"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisDB:         GetEnvInt("REDIS_DB", 0),
		RestoreQueueKey: getEnv("RESTORE_QUEUE_KEY", "smartvault:restore"),
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
	}
}

// LoadWorker reads the variables the restore worker requires.
func LoadWorker() (*Config, error) {
	cfg := &Config{
		PrimaryRegion:   os.Getenv("AWS_REGION"),
		SNSTopicARN:     os.Getenv("SNS_TOPIC_ARN"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisDB:         GetEnvInt("REDIS_DB", 0),
		RestoreQueueKey: getEnv("RESTORE_QUEUE_KEY", "smartvault:restore"),
		WaitInterval:    getEnvDuration("WAIT_INTERVAL", 15*time.Second),
		WaitMaxAttempts: GetEnvInt("WAIT_MAX_ATTEMPTS", 40),
	}
	if cfg.PrimaryRegion == "" {
		return nil, domain.Ef(domain.KindConfig, "config.LoadWorker", "AWS_REGION is not set")
	}
	return cfg, nil
}

func require(key string) (string, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return "", domain.Ef(domain.KindConfig, "config", "%s is not set", key)
	}
	return value, nil
}

func requireInt(key string) (int, error) {
	value, err := require(key)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, domain.Ef(domain.KindConfig, "config", "%s is not an integer: %q", key, value)
	}
	return i, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func GetEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
