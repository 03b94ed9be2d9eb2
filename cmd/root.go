package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agilemorph/firewatch/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "firewatch",
	Short: "Automated fire incident detection pipeline",
	Long:  "Searches recent tweets across states and damage keywords, verifies fire incidents via two-stage Claude classification, and persists verified records incrementally.",
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
