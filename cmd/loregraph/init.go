package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/lore-graph/internal/application/handlers"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new loregraph project",
		Long:  "Creates a .loregraph directory with default configuration and a sample record file.",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	basePath, err := projectDir()
	if err != nil {
		return err
	}

	result, err := handlers.NewInitHandler().Handle(cmd.Context(), basePath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", result.ConfigPath)
	if result.DataWritten {
		fmt.Fprintf(out, "Created sample records in %s\n", result.DataPath)
	} else {
		fmt.Fprintf(out, "Kept existing records in %s\n", result.DataPath)
	}
	fmt.Fprintln(out, "loregraph initialized successfully!")

	return nil
}
