package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/examhack/examhack/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "examhack",
	Short: "Past paper retrieval and study guide generation",
	Long:  "Retrieves past exam papers from the library portal, extracts their text, and asks a hosted model for the most repeated questions and topic weightages.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
