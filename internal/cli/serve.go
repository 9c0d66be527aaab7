package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-board/internal"
	"github.com/rocketscienceinc/tictactoe-board/internal/config"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Host games over the HTTP API and WebSocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			logger := NewLogger(conf.LogLevel, os.Stdout)

			if err = app.RunApp(cmd.Context(), logger, conf); err != nil {
				return fmt.Errorf("app run failed: %w", err)
			}

			return nil
		},
	}
}
