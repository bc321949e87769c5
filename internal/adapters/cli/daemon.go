package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/andrescamacho/edsm-checker-go/internal/adapters/grpc"
	"github.com/andrescamacho/edsm-checker-go/internal/adapters/httpapi"
	"github.com/andrescamacho/edsm-checker-go/internal/adapters/logging"
	"github.com/andrescamacho/edsm-checker-go/internal/adapters/metrics"
	"github.com/andrescamacho/edsm-checker-go/internal/adapters/persistence"
	"github.com/andrescamacho/edsm-checker-go/internal/application/common"
	"github.com/andrescamacho/edsm-checker-go/internal/application/lookup"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/shared"
	"github.com/andrescamacho/edsm-checker-go/internal/infrastructure/config"
	"github.com/andrescamacho/edsm-checker-go/internal/infrastructure/database"
	"github.com/andrescamacho/edsm-checker-go/internal/infrastructure/lockfile"
)

// NewDaemonCommand creates the daemon command
func NewDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the lookup daemon",
		Long: `Run the lookup worker as a long-lived daemon.

Targets are accepted over a Unix socket (see 'enqueue' and 'status') and,
when daemon.http_address is set, over an HTTP API that also serves
Prometheus metrics. Only one daemon may run per lock file.

Stop it with Ctrl+C or SIGTERM; the target being looked up is finished
first, targets still queued are abandoned.

Example:
  edsm-checker daemon --config /etc/edsm-checker/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if socketPath != "" {
				cfg.Daemon.SocketPath = socketPath
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runDaemon(ctx, cfg, cmd.OutOrStdout())
		},
	}

	return cmd
}

// runDaemon serves until ctx is done, then shuts every component down in order:
// servers first, then the worker, then the log relay, then the lock.
func runDaemon(ctx context.Context, cfg *config.Config, out io.Writer) (err error) {
	fmt.Fprintln(out, "EDSM Checker Daemon")
	fmt.Fprintln(out, "===================")

	// 1. Acquire the single-instance lock
	lock := lockfile.New(cfg.Daemon.LockFile)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer func() {
		if releaseErr := lock.Release(); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()
	fmt.Fprintf(out, "Lock acquired: %s\n", lock.Path())

	// 2. Log sink, optionally backed by the database
	sink, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = sink.Sync() }()

	sessionID := uuid.NewString()
	var relayOpts []logging.RelayOption
	if cfg.Database.Enabled {
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func(db *gorm.DB) { _ = database.Close(db) }(db)

		logRepo := persistence.NewGormLookupLogRepository(db, nil) // nil = use RealClock
		if err := pruneLogs(ctx, cfg, logRepo, sink); err != nil {
			return err
		}
		relayOpts = append(relayOpts, logging.WithRepository(logRepo, sessionID))
		fmt.Fprintf(out, "Persisting logs to %s database (session %s)\n", cfg.Database.Type, sessionID)
	}

	relay := logging.NewRelay(sink, relayOpts...)
	defer relay.Close()

	// 3. Metrics
	var recorder common.MetricsRecorder = common.NoOpMetrics()
	var httpMetrics *metrics.HTTPMetricsCollector
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		lookupMetrics := metrics.NewLookupMetricsCollector()
		if err := lookupMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register lookup metrics: %w", err)
		}
		httpMetrics = metrics.NewHTTPMetricsCollector()
		if err := httpMetrics.Register(); err != nil {
			return fmt.Errorf("failed to register HTTP metrics: %w", err)
		}
		recorder = lookupMetrics
		fmt.Fprintln(out, "Metrics enabled")
	}

	// 4. Lookup worker
	client := newCatalogClient(cfg, relay, recorder)
	controller := lookup.NewController(client,
		lookup.WithLogger(relay),
		lookup.WithMetrics(recorder),
		lookup.WithPollInterval(cfg.Worker.PollInterval),
	)
	controller.Start()
	defer controller.Stop()

	// 5. Servers
	daemonServer, err := grpc.NewDaemonServer(controller, relay, cfg.Daemon.SocketPath)
	if err != nil {
		return fmt.Errorf("failed to create daemon server: %w", err)
	}
	daemonServer.SetShutdownTimeout(cfg.Daemon.ShutdownTimeout)
	fmt.Fprintf(out, "Listening on %s\n", cfg.Daemon.SocketPath)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return daemonServer.Serve(gctx)
	})

	if cfg.Daemon.HTTPAddress != "" {
		routerOpts := []httpapi.RouterOption{
			httpapi.WithRouterLogger(relay),
			httpapi.WithMiddlewares(httpapi.LoggingMiddleware(relay)),
		}
		if httpMetrics != nil {
			routerOpts = append(routerOpts,
				httpapi.WithMiddlewares(metrics.PrometheusMiddleware(httpMetrics)),
				httpapi.WithMetrics(cfg.Metrics.Path, metrics.Handler()),
			)
		}
		httpServer := httpapi.NewServer(cfg.Daemon.HTTPAddress,
			httpapi.NewRouter(controller, routerOpts...), relay, cfg.Daemon.ShutdownTimeout)
		g.Go(func() error {
			return httpServer.Serve(gctx)
		})
		fmt.Fprintf(out, "HTTP API on %s\n", cfg.Daemon.HTTPAddress)
	}

	fmt.Fprintln(out, "\n✓ Daemon is ready to accept targets")
	fmt.Fprintln(out, "Press Ctrl+C to stop")

	if err := g.Wait(); err != nil {
		return fmt.Errorf("daemon server error: %w", err)
	}

	fmt.Fprintln(out, "\nDaemon stopped")
	return nil
}

// pruneLogs drops persisted log entries older than the configured retention
func pruneLogs(ctx context.Context, cfg *config.Config, repo persistence.LookupLogRepository, logger common.Logger) error {
	if cfg.Database.Retention <= 0 {
		return nil
	}
	cutoff := shared.NewRealClock().Now().Add(-cfg.Database.Retention)
	removed, err := repo.Prune(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune logs: %w", err)
	}
	logger.Log(common.LevelInfo, "pruned persisted logs", map[string]interface{}{
		"removed": removed,
		"before":  cutoff,
	})
	return nil
}
