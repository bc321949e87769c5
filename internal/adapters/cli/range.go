package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/edsm-checker-go/internal/adapters/api"
	"github.com/andrescamacho/edsm-checker-go/internal/domain/system"
	"github.com/andrescamacho/edsm-checker-go/internal/infrastructure/config"
)

// NewSphereCommand creates the sphere command
func NewSphereCommand() *cobra.Command {
	var (
		radius string
		colors bool
	)

	cmd := &cobra.Command{
		Use:   "sphere <name>",
		Short: "List systems within a radius of a system",
		Long: fmt.Sprintf(`List the systems within --radius light years of the named system.

The radius is clamped to [%d, %d]; a value that is not a whole number
falls back to %d. Without --radius the default from
'config set-default-radius' is used.

Examples:
  edsm-checker sphere Sol
  edsm-checker sphere Sol --radius 20`, api.MinRadius, api.MaxRadius, api.DefaultRadius),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size := resolveRangeFlag(radius, func(u *config.UserConfig) *int { return u.DefaultRadius }, api.ParseRadius, api.ClampRadius, api.DefaultRadius)
			return runRangeQuery(cmd.Context(), cmd.OutOrStdout(), args[0], "sphere", size, colors,
				func(ctx context.Context, client *api.EDSMClient, centre *system.Target) []*system.Target {
					return client.SphereSystems(ctx, centre, size)
				})
		},
	}

	cmd.Flags().StringVar(&radius, "radius", "", "Search radius in light years")
	cmd.Flags().BoolVar(&colors, "color", false, "Highlight scoopable star classes")

	return cmd
}

// NewCubeCommand creates the cube command
func NewCubeCommand() *cobra.Command {
	var (
		cubeSize string
		colors   bool
	)

	cmd := &cobra.Command{
		Use:   "cube <name>",
		Short: "List systems in a cube centred on a system",
		Long: fmt.Sprintf(`List the systems inside a cube of edge --size light years centred on the
named system.

The size is clamped to [%d, %d]; a value that is not a whole number
falls back to %d. Without --size the default from
'config set-default-cube-size' is used.

Examples:
  edsm-checker cube Sol
  edsm-checker cube Sol --size 50`, api.MinCubeSize, api.MaxCubeSize, api.DefaultCubeSize),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size := resolveRangeFlag(cubeSize, func(u *config.UserConfig) *int { return u.DefaultCubeSize }, api.ParseCubeSize, api.ClampCubeSize, api.DefaultCubeSize)
			return runRangeQuery(cmd.Context(), cmd.OutOrStdout(), args[0], "cube", size, colors,
				func(ctx context.Context, client *api.EDSMClient, centre *system.Target) []*system.Target {
					return client.CubeSystems(ctx, centre, size)
				})
		},
	}

	cmd.Flags().StringVar(&cubeSize, "size", "", "Cube edge length in light years")
	cmd.Flags().BoolVar(&colors, "color", false, "Highlight scoopable star classes")

	return cmd
}

// resolveRangeFlag picks the flag text if given, then the user default, then fallback
func resolveRangeFlag(text string, userDefault func(*config.UserConfig) *int, parse func(string) int, clamp func(int) int, fallback int) int {
	if text != "" {
		return parse(text)
	}

	handler, err := config.NewUserConfigHandler()
	if err != nil {
		return fallback
	}
	userCfg, err := handler.Load()
	if err != nil {
		return fallback
	}
	if v := userDefault(userCfg); v != nil {
		return clamp(*v)
	}
	return fallback
}

type rangeQuery func(ctx context.Context, client *api.EDSMClient, centre *system.Target) []*system.Target

func runRangeQuery(ctx context.Context, out io.Writer, name, shape string, size int, colors bool, query rangeQuery) error {
	centre, err := system.ParseTarget(name, "")
	if err != nil {
		return fmt.Errorf("invalid system %q: %w", name, err)
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
	neighbours := query(ctx, client, centre)

	formatter := NewTreeFormatter(colors)
	if len(neighbours) == 0 {
		fmt.Fprintf(out, "No systems found around %s\n", centre.DisplayName())
		return nil
	}
	fmt.Fprint(out, formatter.FormatTree(centre, neighbours))
	fmt.Fprintln(out)
	fmt.Fprintln(out, formatter.FormatSummary(centre, neighbours, shape, size))
	return nil
}
