package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"docquiz/internal/logger"
	"docquiz/internal/server"

	"github.com/spf13/cobra"
)

// serveCmd starts the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Server.Port = port
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return server.Run(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (overrides server.port)")
}
