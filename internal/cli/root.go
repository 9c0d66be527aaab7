package cli

import (
	"github.com/spf13/cobra"
)

const defaultConfigPath = "./config.yml"

// NewRootCmd - builds the command tree.
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "tictactoe",
		Short: "Two-player tic-tac-toe",
		Long: `tictactoe runs a hot-seat tic-tac-toe game.

Use "serve" to host games over HTTP and WebSocket, or "play" to play one in the terminal.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to the yaml config file")

	rootCmd.AddCommand(newServeCmd(&configPath))
	rootCmd.AddCommand(newPlayCmd(&configPath))

	return rootCmd
}
