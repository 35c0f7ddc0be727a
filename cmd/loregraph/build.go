package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/lore-graph/internal/application/handlers"
	"github.com/ersonp/lore-graph/internal/infrastructure/encoders"
)

type buildFlags struct {
	input  string
	output string
	format string
}

func newBuildCmd() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the graph document",
		Long: "Validates the records and writes the graph as vis-network JSON, GML or a standalone\n" +
			"HTML page. Use -o - to write to standard output.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Record file (default from config: data/lore.yaml)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file, or - for stdout (default from config: docs/index.html)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "Output format (json, gml, html; default from output extension or config)")

	return cmd
}

func runBuild(cmd *cobra.Command, flags buildFlags) error {
	ctx := cmd.Context()

	return withDeps(cmd, func(d *Deps) error {
		output := flags.output
		if output == "" {
			output = d.Config.Output.Path
		}
		output = d.resolvePath(output)

		enc, err := encoders.ForFormat(outputFormat(flags.format, output, d.Config.Output.Format))
		if err != nil {
			return err
		}

		src, closeSource, err := openSource(d.inputPath(flags.input))
		if err != nil {
			return err
		}
		defer closeSource() //nolint:errcheck

		if output == stdoutPath {
			doc, err := d.BuildHandler.Build(ctx, src)
			if err != nil {
				return err
			}
			return handlers.Encode(cmd.OutOrStdout(), enc, doc)
		}

		result, err := d.BuildHandler.Handle(ctx, src, enc, output)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d nodes, %d edges)\n", result.Path, result.Nodes, result.Edges)
		return nil
	})
}

// outputFormat picks the explicit format, else one implied by the output
// extension, else the configured one.
func outputFormat(flag, output, configured string) string {
	if flag != "" {
		return flag
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	switch ext {
	case "htm":
		return "html"
	case "json", "gml", "html":
		return ext
	}
	if configured != "" {
		return configured
	}
	return "html"
}
