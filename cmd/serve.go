package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/examhack/examhack/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pipe, store, err := buildPipeline(cfg)
		if err != nil {
			return err
		}
		store.SweepExpired()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		return server.New(*cfg, pipe).Start(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
