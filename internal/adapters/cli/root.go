package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	socketPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "edsm-checker",
		Short: "EDSM checker - look up jump targets in the EDSM catalog",
		Long: `EDSM checker resolves star systems against the EDSM catalog and reports
whether they need a permit, whether their coordinates are locked and how
many of their bodies have been catalogued.

Lookups run one at a time on a background worker, either inside a
one-shot command or inside the daemon, which accepts targets over a
Unix socket and an optional HTTP API.

Examples:
  edsm-checker lookup Sol "Col 285 Sector AB-C d1-23"
  edsm-checker lookup --address 10477373803 ""
  edsm-checker daemon
  edsm-checker enqueue Achenar
  edsm-checker status
  edsm-checker sphere Sol --radius 20
  edsm-checker cube Sol --size 50
  edsm-checker config show`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: search ., ./configs, /etc/edsm-checker)")
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "",
		"Path to daemon Unix socket (default: daemon.socket_path from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	// Add command groups
	rootCmd.AddCommand(NewLookupCommand())
	rootCmd.AddCommand(NewDaemonCommand())
	rootCmd.AddCommand(NewEnqueueCommand())
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewSphereCommand())
	rootCmd.AddCommand(NewCubeCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewLogsCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
