package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/smartvault/smartvault/pkg/domain"
)

var restoreReq domain.RestoreRequest

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Manage snapshot restores",
}

var restoreSubmitCmd = &cobra.Command{
	Use:   "submit [snapshot-id]",
	Short: "Submit a restore request to the front door",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		restoreReq.SnapshotID = domain.SnapshotID(args[0])

		body, err := json.Marshal(&restoreReq)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding request: %v\n", err)
			os.Exit(1)
		}

		resp, err := doRequest(http.MethodPost, "/restore", bytes.NewReader(body))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error submitting restore: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		payload, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusAccepted {
			fmt.Fprintf(os.Stderr, "Error submitting restore: status %d: %s\n", resp.StatusCode, payload)
			os.Exit(1)
		}

		var accepted struct {
			RequestID string `json:"request_id"`
			Message   string `json:"message"`
		}
		if err := json.Unmarshal(payload, &accepted); err != nil {
			fmt.Fprintf(os.Stderr, "Error decoding response: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Restore accepted: %s\n", accepted.RequestID)
	},
}

func init() {
	restoreSubmitCmd.Flags().StringVar(&restoreReq.AvailabilityZone, "zone", "", "Availability zone for the restored volume")
	restoreSubmitCmd.Flags().BoolVar(&restoreReq.LaunchInstance, "launch", false, "Launch an instance and attach the restored volume")
	restoreSubmitCmd.Flags().StringVar(&restoreReq.InstanceType, "type", "", "Instance type when launching")
	restoreSubmitCmd.Flags().StringVar(&restoreReq.AMIID, "ami", "", "AMI ID when launching")
	restoreSubmitCmd.Flags().StringVar(&restoreReq.SubnetID, "subnet", "", "Subnet ID when launching")
	restoreSubmitCmd.Flags().StringVar(&restoreReq.DeviceName, "device", "", "Device name for the attachment")

	restoreCmd.AddCommand(restoreSubmitCmd)
	rootCmd.AddCommand(restoreCmd)
}
