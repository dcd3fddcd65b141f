package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host   string
	apiKey string
)

var rootCmd = &cobra.Command{
	Use:   "smartvault",
	Short: "SmartVault CLI",
	Long:  `Automated EBS snapshot backup, cross-region replication and restore.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "Restore front door URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for authentication")
}
