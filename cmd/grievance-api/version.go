package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/grievance-api/internal/version"
)

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), programName, version.String())
		},
	}
}
