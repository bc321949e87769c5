package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/edsm-checker-go/internal/adapters/grpc"
)

const daemonCallTimeout = 5 * time.Second

// newDaemonClient connects to the daemon socket from --socket or the config
func newDaemonClient() (*grpc.LookupClientGRPC, error) {
	path := socketPath
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		path = resolveSocketPath(cfg)
	}

	client, err := grpc.NewLookupClientGRPC(path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w", err)
	}
	return client, nil
}

// NewEnqueueCommand creates the enqueue command
func NewEnqueueCommand() *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "enqueue [name]",
		Short: "Queue a system for lookup on the running daemon",
		Long: `Hand a system to the daemon's lookup worker. The command returns as soon
as the daemon has queued it; use 'status' to read the result.

Examples:
  edsm-checker enqueue Sol
  edsm-checker enqueue --address 10477373803`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" && address == "" {
				return fmt.Errorf("a system name or --address is required")
			}

			client, err := newDaemonClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), daemonCallTimeout)
			defer cancel()

			if err := client.Enqueue(ctx, name, address); err != nil {
				return err
			}

			label := name
			if label == "" {
				label = address
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Queued %s\n", label)
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "64-bit catalog address (systemId64)")

	return cmd
}

// NewStatusCommand creates the status command
func NewStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the daemon's latest lookup status",
		Long:  `Print the display string most recently published by the daemon's lookup worker.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDaemonClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), daemonCallTimeout)
			defer cancel()

			info, err := client.Status(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			status := info.Status
			if status == "" {
				status = "(none)"
			}
			fmt.Fprintf(out, "Status:   %s\n", status)
			if !info.UpdatedAt.IsZero() {
				fmt.Fprintf(out, "Updated:  %s\n", formatTimestamp(info.UpdatedAt))
			}
			fmt.Fprintf(out, "Worker:   %s\n", info.State)
			fmt.Fprintf(out, "Pending:  %d\n", info.Pending)
			return nil
		},
	}

	return cmd
}

func formatTimestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}
