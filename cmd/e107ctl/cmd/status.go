package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zahedbri/e107/pkg/ajax"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show e107d status",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp ajax.StatusResponse
			if err := apiGet("/api/v1/status", &resp); err != nil {
				return err
			}

			fmt.Printf("Status:      %s\n", resp.Status)
			fmt.Printf("Uptime:      %s\n", resp.Uptime)
			fmt.Printf("Bus Running: %v\n", resp.BusRunning)
			fmt.Printf("Started At:  %s\n", resp.StartedAt.Format("2006-01-02 15:04:05"))
			fmt.Printf("Scripts:     %d\n", resp.ScriptCount)
			return nil
		},
	}
}
