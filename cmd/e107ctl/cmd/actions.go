package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zahedbri/e107/pkg/ajax"
)

func newActionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actions",
		Short: "Manage action scripts",
	}

	cmd.AddCommand(newActionsListCmd())
	cmd.AddCommand(newActionsReloadCmd())

	// Default to list when no subcommand given.
	cmd.RunE = newActionsListCmd().RunE

	return cmd
}

func newActionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List loaded action scripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp ajax.ScriptsResponse
			if err := apiGet("/api/v1/actions", &resp); err != nil {
				return err
			}

			if len(resp.Scripts) == 0 {
				fmt.Println("No action scripts loaded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tACTIONS\tDISPATCHES\tERRORS\tLOADED AT")
			for _, s := range resp.Scripts {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
					s.Name,
					strings.Join(s.Actions, ", "),
					s.Dispatches, s.Errors,
					s.LoadedAt.Format("15:04:05"),
				)
			}
			w.Flush()
			return nil
		},
	}
}

func newActionsReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Reload all action scripts from disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp map[string]string
			if err := apiPost("/api/v1/actions/reload", &resp); err != nil {
				return err
			}
			fmt.Println("Action scripts reloaded.")
			return nil
		},
	}
}
