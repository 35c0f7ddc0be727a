package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ersonp/lore-graph/internal/application/handlers"
	"github.com/ersonp/lore-graph/internal/domain/ports"
	"github.com/ersonp/lore-graph/internal/domain/services"
	"github.com/ersonp/lore-graph/internal/infrastructure/config"
	"github.com/ersonp/lore-graph/internal/infrastructure/logging"
	"github.com/ersonp/lore-graph/internal/infrastructure/metrics"
	"github.com/ersonp/lore-graph/internal/infrastructure/parsers"
	"github.com/ersonp/lore-graph/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds high-level dependencies for commands.
type Deps struct {
	BasePath     string
	Config       *config.Config
	Logger       *log.Logger
	BuildHandler *handlers.BuildHandler
}

// depsOptions adjusts dependency construction per command.
type depsOptions struct {
	metrics metrics.Recorder
}

// withDeps loads config and builds dependencies, then calls the provided function.
func withDeps(cmd *cobra.Command, fn func(*Deps) error) error {
	return withDepsOptions(cmd, depsOptions{}, fn)
}

func withDepsOptions(cmd *cobra.Command, opts depsOptions, fn func(*Deps) error) error {
	basePath, err := projectDir()
	if err != nil {
		return err
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cmd.ErrOrStderr(), logging.Options{
		Debug:  verboseLog,
		Prefix: cmd.Name(),
	})

	builder := services.NewGraphBuilder(cfg.BuilderConfig())
	buildHandler := handlers.NewBuildHandler(builder, opts.metrics, logger).WithTitle(cfg.Graph.Title)

	return fn(&Deps{
		BasePath:     basePath,
		Config:       cfg,
		Logger:       logger,
		BuildHandler: buildHandler,
	})
}

// projectDir returns the --dir flag or the current directory.
func projectDir() (string, error) {
	if globalDir != "" {
		return globalDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return cwd, nil
}

// resolvePath makes a configured path relative to the project directory.
func (d *Deps) resolvePath(p string) string {
	if p == "" || p == stdoutPath || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(d.BasePath, p)
}

// inputPath returns the flag value or the configured input.
func (d *Deps) inputPath(flag string) string {
	if flag != "" {
		return d.resolvePath(flag)
	}
	return d.resolvePath(d.Config.Input)
}

// openSource picks the record source from the file extension. The
// returned close function must be called when done.
func openSource(path string) (ports.Source, func() error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		src, err := sqlite.OpenExisting(path)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil
	default:
		src, err := parsers.NewFileSource(path)
		if err != nil {
			return nil, nil, err
		}
		return src, func() error { return nil }, nil
	}
}
