package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the records without writing anything",
		Long:  "Builds the graph in memory and reports every malformed, duplicate or dangling record.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, input)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Record file (default from config: data/lore.yaml)")

	return cmd
}

func runValidate(cmd *cobra.Command, input string) error {
	ctx := cmd.Context()

	return withDeps(cmd, func(d *Deps) error {
		path := d.inputPath(input)
		src, closeSource, err := openSource(path)
		if err != nil {
			return err
		}
		defer closeSource() //nolint:errcheck

		summary, err := d.BuildHandler.Validate(ctx, src)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d entities, %d relationships\n", path, summary.Nodes, summary.Edges)
		return nil
	})
}
