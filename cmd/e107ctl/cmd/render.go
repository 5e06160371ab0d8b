package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zahedbri/e107/internal/action"
	"github.com/zahedbri/e107/pkg/ajax"
)

func newRenderCmd() *cobra.Command {
	var dir string
	var paramsJSON string

	cmd := &cobra.Command{
		Use:   "render <action>",
		Short: "Dispatch an action offline and print its command batch",
		Long: `Loads the action scripts from a local directory (without a running daemon),
dispatches the named action, and prints the resulting JSON command array.
Useful for trying out scripts before deploying them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				homeDir, _ := os.UserHomeDir()
				dir = filepath.Join(homeDir, ".config", "e107", "actions")
			}

			var params map[string]any
			if paramsJSON != "" {
				if err := json.Unmarshal([]byte(paramsJSON), &params); err != nil {
					return fmt.Errorf("parse --params: %w", err)
				}
			}

			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
			eng := action.New(dir, 0, logger)
			defer eng.Stop()
			if err := eng.LoadDir(); err != nil {
				return fmt.Errorf("load actions: %w", err)
			}

			commands, err := eng.Dispatch(args[0], params)
			if err != nil {
				return err
			}

			out, err := ajax.Render(commands)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "actions directory (default: ~/.config/e107/actions)")
	cmd.Flags().StringVar(&paramsJSON, "params", "", "request params as a JSON object")
	return cmd
}
