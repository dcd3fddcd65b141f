package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/spf13/cobra"

	"github.com/smartvault/smartvault/pkg/backup"
	"github.com/smartvault/smartvault/pkg/cloud"
	"github.com/smartvault/smartvault/pkg/config"
	"github.com/smartvault/smartvault/pkg/notify"
	"github.com/smartvault/smartvault/pkg/telemetry"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Run one backup cycle",
	Long:  `Discover tagged instances, snapshot their volumes, replicate the snapshots to the DR region and retire expired ones.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := config.LoadBackup()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		orch, err := newOrchestrator(ctx, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		report, err := orch.Run(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Backup cycle failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("Backup cycle complete: %d targets, %d snapshots, %d replicated, %d retired (%d primary, %d DR)\n",
			report.Targets, len(report.Created), len(report.Replicated),
			report.RetiredPrimary+report.RetiredDR, report.RetiredPrimary, report.RetiredDR)
	},
}

func newOrchestrator(ctx context.Context, cfg *config.Config) (*backup.Orchestrator, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	tlogger := telemetry.NewSlogAdapterWith(logger)

	primary, err := cloud.NewEC2Compute(ctx, cfg.PrimaryRegion)
	if err != nil {
		return nil, fmt.Errorf("creating EC2 client for %s: %w", cfg.PrimaryRegion, err)
	}
	dr, err := cloud.NewEC2Compute(ctx, cfg.DRRegion)
	if err != nil {
		return nil, fmt.Errorf("creating EC2 client for %s: %w", cfg.DRRegion, err)
	}
	keys, err := cloud.NewKMSKeys(ctx, cfg.DRRegion)
	if err != nil {
		return nil, fmt.Errorf("creating KMS client: %w", err)
	}
	awsCfg, err := cloud.LoadAWSConfig(ctx, cfg.PrimaryRegion)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &backup.Orchestrator{
		Primary:       primary,
		DR:            dr,
		DRKeys:        keys,
		Notifier:      notify.NewSNSNotifier(sns.NewFromConfig(awsCfg), cfg.SNSTopicARN, tlogger),
		Logger:        tlogger,
		Metrics:       telemetry.NewPrometheusMetrics(),
		TagKey:        cfg.BackupTagKey,
		TagValue:      cfg.BackupTagValue,
		RetentionDays: cfg.RetentionDays,
		DRKMSKeyARN:   cfg.DRKMSKeyARN,
		Wait:          cloud.WaitConfig{Interval: cfg.WaitInterval, MaxAttempts: cfg.WaitMaxAttempts},
	}, nil
}

func init() {
	rootCmd.AddCommand(backupCmd)
}
