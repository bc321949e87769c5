package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/edsm-checker-go/internal/adapters/api"
	"github.com/andrescamacho/edsm-checker-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage EDSM checker configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (EDSM_* prefix, e.g. EDSM_WORKER_POLL_INTERVAL)
2. Config file (config.yaml)
3. Default values

User preferences (default sphere radius and cube size) are stored in
~/.edsm-checker/prefs.json

Examples:
  edsm-checker config show
  edsm-checker config set-default-radius 20
  edsm-checker config set-default-cube-size 50
  edsm-checker config clear`,
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetDefaultRadiusCommand())
	cmd.AddCommand(newConfigSetDefaultCubeSizeCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long: `Display the effective configuration as YAML, followed by the user preferences.

Example:
  edsm-checker config show`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			// Load system config
			cfg, err := loadConfig()
			if err != nil {
				fmt.Fprintf(out, "# Warning: %v\n", err)
				fmt.Fprintln(out, "# Using default configuration.")
				cfg = config.DefaultConfig()
			}
			if cfg.Database.URL != "" {
				cfg.Database.URL = maskPassword(cfg.Database.URL)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}
			fmt.Fprint(out, string(data))

			// Load user config
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(out, "# Warning: failed to load user config: %v\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Fprintf(out, "\n# User preferences (%s)\n", userConfigHandler.GetConfigPath())
			fmt.Fprintf(out, "default_radius: %s\n", formatPreference(userCfg.DefaultRadius, api.DefaultRadius))
			fmt.Fprintf(out, "default_cube_size: %s\n", formatPreference(userCfg.DefaultCubeSize, api.DefaultCubeSize))

			return nil
		},
	}

	return cmd
}

// newConfigSetDefaultRadiusCommand creates the config set-default-radius subcommand
func newConfigSetDefaultRadiusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-default-radius <ly>",
		Short: "Set the default sphere radius",
		Long: fmt.Sprintf(`Set the radius 'sphere' uses when --radius is not given.
The value is clamped to [%d, %d].

Example:
  edsm-checker config set-default-radius 20`, api.MinRadius, api.MaxRadius),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("radius must be a whole number: %q", args[0])
			}
			radius := api.ClampRadius(value)

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaultRadius(radius); err != nil {
				return fmt.Errorf("failed to set default radius: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Default radius set to %d ly\n", radius)
			return nil
		},
	}

	return cmd
}

// newConfigSetDefaultCubeSizeCommand creates the config set-default-cube-size subcommand
func newConfigSetDefaultCubeSizeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-default-cube-size <ly>",
		Short: "Set the default cube edge length",
		Long: fmt.Sprintf(`Set the edge length 'cube' uses when --size is not given.
The value is clamped to [%d, %d].

Example:
  edsm-checker config set-default-cube-size 50`, api.MinCubeSize, api.MaxCubeSize),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("cube size must be a whole number: %q", args[0])
			}
			size := api.ClampCubeSize(value)

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.SetDefaultCubeSize(size); err != nil {
				return fmt.Errorf("failed to set default cube size: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Default cube size set to %d ly\n", size)
			return nil
		},
	}

	return cmd
}

// newConfigClearCommand creates the config clear subcommand
func newConfigClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear user preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := userConfigHandler.ClearDefaults(); err != nil {
				return fmt.Errorf("failed to clear user preferences: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ User preferences cleared")
			return nil
		},
	}

	return cmd
}

func formatPreference(v *int, fallback int) string {
	if v == nil {
		return fmt.Sprintf("%d # not set, built-in default", fallback)
	}
	return strconv.Itoa(*v)
}
