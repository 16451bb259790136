package main

import (
	"context"

	"github.com/spf13/cobra"

	"tokq/internal/store"
)

// initApplyCommand adds the apply command to the root command.
func initApplyCommand() {
	var (
		filePath string
		dryRun   bool
	)

	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "Validate and save views from a YAML file",
		Long: `Validate and save views from a YAML file. The file holds either a single
view or a collection under "views:".

Examples:
  # Save the views in a file
  tokq apply -f views.yaml

  # Read from stdin
  tokq view save --name recent --order MARKET_createdAt --dry-run | tokq apply -f -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configs, err := readViewConfigs(filePath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			if dryRun {
				checker, err := newChecker(flags)
				if err != nil {
					return err
				}
				prepared, err := prepareViewConfigs(checker, configs)
				if err != nil {
					return err
				}
				return writeViewYAML(cmd.OutOrStdout(), prepared, len(prepared) > 1)
			}

			return withStore(cmd.Context(), func(ctx context.Context, s *store.Store) error {
				return applyViewConfigs(ctx, cmd.OutOrStdout(), s, configs)
			})
		},
	}

	applyCmd.Flags().StringVarP(&filePath, "file", "f", "", "YAML file containing views (use '-' for stdin)")
	applyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and print the views without saving them")
	if err := applyCmd.MarkFlagRequired("file"); err != nil {
		logger.Warn("failed to mark file flag as required", "error", err)
	}

	rootCmd.AddCommand(applyCmd)
}
