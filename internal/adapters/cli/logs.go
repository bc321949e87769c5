package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/edsm-checker-go/internal/adapters/persistence"
	"github.com/andrescamacho/edsm-checker-go/internal/infrastructure/database"
)

// NewLogsCommand creates the logs command
func NewLogsCommand() *cobra.Command {
	var (
		limit   int
		level   string
		session string
		since   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show lookup logs persisted by the daemon",
		Long: `Retrieve lookup trace lines the daemon persisted to the database.
Requires database.enabled in the daemon's configuration.

Examples:
  edsm-checker logs
  edsm-checker logs --limit 50
  edsm-checker logs --level ERROR --since 1h
  edsm-checker logs --session 3f6c0d5e-...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config and connect to database
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close(db)

			// Create log repository
			logRepo := persistence.NewGormLookupLogRepository(db, nil)

			var levelPtr *string
			if level != "" {
				upper := strings.ToUpper(level)
				levelPtr = &upper
			}
			var sincePtr *time.Time
			if since > 0 {
				t := time.Now().Add(-since)
				sincePtr = &t
			}

			logs, err := logRepo.GetLogs(context.Background(), session, limit, 0, levelPtr, sincePtr)
			if err != nil {
				return fmt.Errorf("failed to get logs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(logs) == 0 {
				fmt.Fprintln(out, "No logs found")
				return nil
			}

			// Display logs in reverse order (oldest first)
			for i := len(logs) - 1; i >= 0; i-- {
				entry := logs[i]
				fmt.Fprintf(out, "[%s] [%s] %s\n",
					entry.Timestamp.Local().Format("2006-01-02 15:04:05"),
					entry.Level,
					entry.Message,
				)
			}

			fmt.Fprintf(out, "\nTotal: %d log entries\n", len(logs))

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of log entries")
	cmd.Flags().StringVar(&level, "level", "", "Filter by log level (DEBUG, INFO, WARNING, ERROR)")
	cmd.Flags().StringVar(&session, "session", "", "Only show entries from one daemon session")
	cmd.Flags().DurationVar(&since, "since", 0, "Only show entries newer than this (e.g. 30m, 2h)")

	return cmd
}
