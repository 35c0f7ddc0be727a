package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ersonp/lore-graph/internal/domain/entities"
	"github.com/ersonp/lore-graph/internal/infrastructure/metrics"
	"github.com/ersonp/lore-graph/internal/infrastructure/server"
	"github.com/ersonp/lore-graph/internal/infrastructure/watcher"
)

type serveFlags struct {
	input string
	host  string
	port  int
	watch bool
}

func newServeCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the graph and the viewer over HTTP",
		Long: "Builds the graph once and serves the viewer at /, the document at /graph.json and\n" +
			"/graph.gml, plus /healthz and /metrics. With --watch the graph is rebuilt when the\n" +
			"record file changes; while the records are invalid /graph.json answers 503.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Record file (default from config: data/lore.yaml)")
	cmd.Flags().StringVar(&flags.host, "host", "", "Host to bind (default from config or LOREGRAPH_HOST)")
	cmd.Flags().IntVarP(&flags.port, "port", "p", 0, "Port to bind (default from config or LOREGRAPH_PORT)")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Rebuild when the record file changes")

	return cmd
}

func runServe(cmd *cobra.Command, flags serveFlags) error {
	ctx := cmd.Context()
	prom := metrics.NewPrometheus()

	return withDepsOptions(cmd, depsOptions{metrics: prom}, func(d *Deps) error {
		serverCfg := d.Config.Server
		if flags.host != "" {
			serverCfg.Host = flags.host
		}
		if flags.port != 0 {
			serverCfg.Port = flags.port
		}
		watch := flags.watch || serverCfg.Watch
		input := d.inputPath(flags.input)

		build := func(ctx context.Context) (*entities.GraphDocument, error) {
			src, closeSource, err := openSource(input)
			if err != nil {
				return nil, err
			}
			defer closeSource() //nolint:errcheck
			return d.BuildHandler.Build(ctx, src)
		}

		srv := server.New(server.Options{
			Addr:    serverCfg.Addr(),
			Build:   build,
			Metrics: prom,
			Logger:  d.Logger,
		})

		if err := srv.Rebuild(ctx); err != nil {
			if !watch {
				return err
			}
			d.Logger.Error("initial build failed, waiting for changes", "err", err)
		}

		addr, err := srv.Listen()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Serving %s at http://%s/\n", input, addr)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Run(gctx)
		})
		if watch {
			w := watcher.New(input, func(ctx context.Context) {
				if err := srv.Rebuild(ctx); err != nil {
					d.Logger.Error("rebuild failed", "err", err)
					return
				}
				d.Logger.Info("graph rebuilt", "source", input)
			}, d.Logger)
			g.Go(func() error {
				return w.Run(gctx)
			})
		}

		return g.Wait()
	})
}
