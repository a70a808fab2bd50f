// Package cmd - serve command
package cmd

import (
	"github.com/spf13/cobra"

	"audit-quote/api"
	"audit-quote/internal/config"
)

var serveAddr string

// serveCmd starts the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve the quote and contact API until interrupted.

Telegram credentials are read from TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID,
either in the environment or in the dotenv file.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (overrides config)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if serveAddr != "" {
		cfg.Server.Address = serveAddr
	}
	return api.Run(cmd.Context(), Version, cfg)
}
