package cli

import (
	"fmt"
	"net/url"

	"github.com/andrescamacho/edsm-checker-go/internal/adapters/api"
	"github.com/andrescamacho/edsm-checker-go/internal/adapters/logging"
	"github.com/andrescamacho/edsm-checker-go/internal/application/common"
	"github.com/andrescamacho/edsm-checker-go/internal/infrastructure/config"
)

// loadConfig loads configuration from --config or the default search paths
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// resolveSocketPath returns --socket if given, otherwise the configured daemon socket
func resolveSocketPath(cfg *config.Config) string {
	if socketPath != "" {
		return socketPath
	}
	return cfg.Daemon.SocketPath
}

// newLogger builds the zap log sink from the logging configuration
func newLogger(cfg *config.Config) (*logging.ZapLogger, error) {
	logger, err := logging.NewZapLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// newCatalogClient builds the EDSM client from the catalog configuration
func newCatalogClient(cfg *config.Config, logger common.Logger, metrics common.MetricsRecorder) *api.EDSMClient {
	return api.NewEDSMClientWithConfig(api.ClientConfig{
		SystemsURL:        cfg.Catalog.SystemsURL,
		SystemURL:         cfg.Catalog.SystemURL,
		Options:           queryOptions(cfg.Catalog.Options),
		ResolveTimeout:    cfg.Catalog.ResolveTimeout,
		BulkTimeout:       cfg.Catalog.BulkTimeout,
		RequestsPerSecond: cfg.Catalog.RateLimit.Requests,
		Burst:             cfg.Catalog.RateLimit.Burst,
		Logger:            logger,
		Metrics:           metrics,
	})
}

func queryOptions(o config.QueryOptionsConfig) api.QueryOptions {
	return api.QueryOptions{
		ShowID:          config.Enabled(o.ShowID),
		ShowPermit:      config.Enabled(o.ShowPermit),
		ShowCoordinates: config.Enabled(o.ShowCoordinates),
		ShowInformation: config.Enabled(o.ShowInformation),
		ShowPrimaryStar: config.Enabled(o.ShowPrimaryStar),
		IncludeHidden:   config.Enabled(o.IncludeHidden),
	}
}

// maskPassword hides the password component of a connection URL
func maskPassword(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.User == nil {
		return rawURL
	}
	if _, ok := u.User.Password(); !ok {
		return rawURL
	}
	u.User = url.UserPassword(u.User.Username(), "xxxxx")
	return u.String()
}
