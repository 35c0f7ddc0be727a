package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ersonp/lore-graph/internal/domain/services"
)

type statsFlags struct {
	input  string
	asJSON bool
}

func newStatsCmd() *cobra.Command {
	var flags statsFlags

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the graph",
		Long:  "Prints node and edge counts, categories, groups and relationship types by frequency.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Record file (default from config: data/lore.yaml)")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Print the summary as JSON")

	return cmd
}

func runStats(cmd *cobra.Command, flags statsFlags) error {
	ctx := cmd.Context()

	return withDeps(cmd, func(d *Deps) error {
		src, closeSource, err := openSource(d.inputPath(flags.input))
		if err != nil {
			return err
		}
		defer closeSource() //nolint:errcheck

		summary, err := d.BuildHandler.Validate(ctx, src)
		if err != nil {
			return err
		}

		if flags.asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		}
		return printSummary(cmd.OutOrStdout(), summary)
	})
}

func printSummary(w io.Writer, s *services.Summary) error {
	rule := strings.Repeat("=", 50)
	title := s.Title
	if title == "" {
		title = "Graph"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s Summary:\n%s\n", rule, title, rule)
	fmt.Fprintf(&b, "\nNodes: %d\nEdges: %d\n", s.Nodes, s.Edges)

	writeCounts(&b, "Categories", s.Categories, nil)
	writeCounts(&b, "Groups", s.Groups, nil)
	writeCounts(&b, "Relationship Types", s.RelationshipTypes, services.HumanizeType)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeCounts(b *strings.Builder, heading string, counts []services.Count, label func(string) string) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s (%d):\n", heading, len(counts))
	for _, c := range counts {
		name := c.Name
		if label != nil {
			name = label(name)
		}
		fmt.Fprintf(b, "  • %s: %d\n", name, c.Count)
	}
}
