package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/edsm-checker-go/internal/application/common"
	"github.com/andrescamacho/edsm-checker-go/internal/application/lookup"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/system"
)

// NewLookupCommand creates the one-shot lookup command
func NewLookupCommand() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "lookup <name>...",
		Short: "Look up one or more systems and print their status",
		Long: `Start a lookup worker, enqueue each system in order and print the status
published for it once its lookup has finished.

Use --address to look up a system by its 64-bit catalog address. With a
single empty name the address alone is used.

Examples:
  edsm-checker lookup Sol
  edsm-checker lookup Sol Achenar "Col 285 Sector AB-C d1-23"
  edsm-checker lookup --address 10477373803 ""`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" && len(args) > 1 {
				return fmt.Errorf("--address can only be used with a single system")
			}

			targets := make([]*system.Target, 0, len(args))
			for _, name := range args {
				target, err := system.ParseTarget(name, address)
				if err != nil {
					return fmt.Errorf("invalid target %q: %w", name, err)
				}
				targets = append(targets, target)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			client := newCatalogClient(cfg, logger, nil)
			controller := lookup.NewController(client,
				lookup.WithLogger(logger),
				lookup.WithPollInterval(cfg.Worker.PollInterval),
			)
			controller.Start()
			defer controller.Stop()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Worker.DrainTimeout)
			defer cancel()

			return runLookups(ctx, cmd.OutOrStdout(), controller, targets, logger)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "64-bit catalog address (systemId64)")

	return cmd
}

// runLookups enqueues each target, waits for it to be processed and prints its status
func runLookups(ctx context.Context, out io.Writer, controller *lookup.Controller, targets []*system.Target, logger common.Logger) error {
	for _, target := range targets {
		controller.Enqueue(target)
		if err := controller.Drain(ctx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("timed out waiting for %s", target.DisplayName())
			}
			return fmt.Errorf("lookup of %s interrupted: %w", target.DisplayName(), err)
		}

		status := controller.Status()
		logger.Log(common.LevelDebug, "lookup complete", map[string]interface{}{
			"target": target.DisplayName(),
			"status": status,
		})
		fmt.Fprintln(out, status)
	}
	return nil
}
