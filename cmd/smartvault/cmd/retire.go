package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smartvault/smartvault/pkg/cloud"
	"github.com/smartvault/smartvault/pkg/config"
)

var retireRegion string

var retireCmd = &cobra.Command{
	Use:   "retire",
	Short: "Retire expired snapshots in one region",
	Long:  `Delete SmartVault-owned snapshots older than the retention window, without running a full backup cycle.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		cfg, err := config.LoadBackup()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}

		region := retireRegion
		if region == "" {
			region = cfg.PrimaryRegion
		}

		orch, err := newOrchestrator(ctx, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		compute, err := cloud.NewEC2Compute(ctx, region)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating EC2 client: %v\n", err)
			os.Exit(1)
		}

		retired, err := orch.Retire(ctx, compute)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Retention scan failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Retired %d snapshots in %s\n", retired, region)
	},
}

func init() {
	retireCmd.Flags().StringVar(&retireRegion, "region", "", "Region to scan (defaults to AWS_REGION)")
	rootCmd.AddCommand(retireCmd)
}
