package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/grievance-api/pkg/seed"
)

func seedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Inspect reference data",
	}

	var file string
	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check a seed file without starting the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := seed.Load(file)
			if err != nil {
				return err
			}
			source := file
			if source == "" {
				source = "embedded default"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d institutions, %d roles\n",
				source, len(data.Institutions), len(data.Roles))
			return nil
		},
	}
	validate.Flags().StringVarP(&file, "file", "f", "", "seed file to check (defaults to the embedded data)")

	cmd.AddCommand(validate)
	return cmd
}
