package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aretw0/lexfsm"
	"github.com/aretw0/lexfsm/internal/presentation/tui"
	"github.com/aretw0/lexfsm/pkg/adapters/file"
	httpAdapter "github.com/aretw0/lexfsm/pkg/adapters/http"
	"github.com/aretw0/lexfsm/pkg/observability"
	"github.com/aretw0/lexfsm/pkg/ports"
	"github.com/aretw0/lexfsm/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve descriptions over HTTP",
	Long: `Loads every description from --dir (or from Redis with --redis) and exposes
them through a read-only JSON API, a tokenize endpoint, Prometheus metrics and
a server-sent events stream of reloads.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("dir") {
			cfg.Dir, _ = cmd.Flags().GetString("dir")
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("watch") {
			cfg.Server.Watch, _ = cmd.Flags().GetBool("watch")
		}
		applyRedisFlags(cmd)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		var loader ports.DescriptionLoader
		source := cfg.Dir
		if cfg.Redis.Addr != "" {
			store := newRedisStore()
			defer store.Close()
			loader = store
			source = "redis://" + cfg.Redis.Addr
		} else {
			loader = file.New(cfg.Dir)
		}

		promRegistry := prometheus.NewRegistry()
		promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics, err := observability.NewMetrics(promRegistry)
		if err != nil {
			return err
		}
		streams := httpAdapter.NewStreamManager()

		defs := registry.NewRegistry(loader,
			registry.WithLogger(logger),
			registry.WithLoadObserver(metrics.ObserveLoad),
			registry.WithLoadObserver(streams.ObserveLoad),
		)
		if err := defs.LoadAll(ctx); err != nil {
			// Serve what did load; broken descriptions are reported and retried on change.
			logger.Warn("some descriptions failed to load", "err", err)
		}

		if cfg.Server.Watch {
			go func() {
				err := defs.Watch(ctx)
				if errors.Is(err, registry.ErrNotWatchable) {
					logger.Warn("watch is not supported by this source", "source", source)
				} else if err != nil {
					logger.Error("watch stopped", "err", err)
				}
			}()
		}

		handler := httpAdapter.NewHandler(defs,
			httpAdapter.WithStreams(streams),
			httpAdapter.WithMetrics(metrics, promRegistry),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithVersion(lexfsm.Version),
		)

		srv := &http.Server{
			Addr:        ":" + strconv.Itoa(cfg.Server.Port),
			Handler:     handler,
			ReadTimeout: cfg.Server.ReadTimeout,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			tui.PrintBanner(cmd.ErrOrStderr(), lexfsm.Version)
			logger.Info("server listening", "addr", srv.Addr, "source", source, "definitions", len(defs.Names()))
			serverErrors <- srv.ListenAndServe()
		}()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancelShutdown()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("failed to stop server: %w", err)
				}
			}
			logger.Info("server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("dir", ".", "Directory containing description files")
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("redis", "", "Load descriptions from Redis at this address instead of --dir")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload descriptions when their files change")
}
