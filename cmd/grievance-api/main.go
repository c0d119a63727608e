package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noah-isme/grievance-api/pkg/config"
)

const programName = "grievance-api"

var globalFlags = struct {
	debug bool
}{}

// @title Grievance API
// @version 1.0.0
// @description File, track and review institutional grievances
// @BasePath /
// @schemes http

func main() {
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:   programName,
		Short: "Grievance filing, tracking and review service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd, cfg)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if globalFlags.debug {
			loaded.Log.Level = "debug"
		}
		cfg = loaded
		return nil
	}

	rootCmd.AddCommand(serveCommand(&cfg))
	rootCmd.AddCommand(seedCommand())
	rootCmd.AddCommand(versionCommand())

	if err := rootCmd.Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}
