package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ethanCharter/floatlog/pkg/cli/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show status of a running overlay server",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewClientFromFlags()
		status, err := client.Status()
		if err != nil {
			return fmt.Errorf("%s", FormatConnectionError(err))
		}

		if jsonOutput {
			return output.JSON(status)
		}

		fmt.Printf("Server:      %s (version %s)\n", status.Status, status.Version)
		fmt.Printf("Uptime:      %ds\n", status.Uptime)
		if status.MaxEntries > 0 {
			fmt.Printf("Entries:     %d / %d\n", status.Entries, status.MaxEntries)
		} else {
			fmt.Printf("Entries:     %d (unbounded)\n", status.Entries)
		}
		fmt.Printf("Subscribers: %d\n", status.Subscribers)
		fmt.Printf("Streams:     %d SSE, %d WebSocket\n", status.Streams.SSE, status.Streams.WebSocket)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
