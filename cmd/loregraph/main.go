// Package main provides the entry point for the loregraph CLI application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ersonp/lore-graph/internal/domain/entities"
)

var (
	version    = "0.1.0-dev"
	globalDir  string
	verboseLog bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		reportError(os.Stderr, err)
	}
	cancel()
	os.Exit(exitCode(err))
}

func newRootCmd() *cobra.Command {
	var flags buildFlags

	rootCmd := &cobra.Command{
		Use:   "loregraph",
		Short: "Build and serve character and faction relationship graphs",
		Long: "Reads entity and relationship records, validates them and writes a graph document\n" +
			"for vis-network. Without a subcommand it builds the configured output.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&globalDir, "dir", "C", "", "Project directory (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verboseLog, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().StringVarP(&flags.input, "input", "i", "", "Record file (default from config: data/lore.yaml)")

	rootCmd.AddCommand(
		newBuildCmd(),
		newServeCmd(),
		newValidateCmd(),
		newStatsCmd(),
		newSchemaCmd(),
		newInitCmd(),
	)

	return rootCmd
}

// reportError prints err to w. Validation problems are printed verbatim so
// their record references stay readable.
func reportError(w io.Writer, err error) {
	var dve *entities.DataValidationError
	if errors.As(err, &dve) {
		fmt.Fprintln(w, err)
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

// exitCode maps an error to the process exit status: 0 for success, 2 for
// invalid records and 1 for everything else.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var dve *entities.DataValidationError
	if errors.As(err, &dve) {
		return ExitValidation
	}
	return ExitFailure
}
