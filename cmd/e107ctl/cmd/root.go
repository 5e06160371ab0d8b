package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zahedbri/e107/pkg/sockpath"
)

var (
	socketPath string

	// Version is set by the main package via ldflags.
	Version = "dev"
)

// NewRootCmd creates the root e107ctl command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "e107ctl",
		Short:   "e107 CLI — control the e107d daemon",
		Version: Version,
	}

	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", sockpath.DefaultSocketPath(), "e107d Unix socket path")

	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newActionsCmd())
	rootCmd.AddCommand(newRenderCmd())
	rootCmd.AddCommand(newSecretsCmd())

	return rootCmd
}
