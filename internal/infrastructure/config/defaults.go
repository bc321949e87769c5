package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Catalog defaults
	if cfg.Catalog.SystemsURL == "" {
		cfg.Catalog.SystemsURL = "https://www.edsm.net/api-v1/"
	}
	if cfg.Catalog.SystemURL == "" {
		cfg.Catalog.SystemURL = "https://www.edsm.net/api-system-v1/"
	}
	if cfg.Catalog.ResolveTimeout == 0 {
		cfg.Catalog.ResolveTimeout = 30 * time.Second
	}
	if cfg.Catalog.BulkTimeout == 0 {
		cfg.Catalog.BulkTimeout = 60 * time.Second
	}
	if cfg.Catalog.RateLimit.Requests == 0 {
		cfg.Catalog.RateLimit.Requests = 1
	}
	if cfg.Catalog.RateLimit.Burst == 0 {
		cfg.Catalog.RateLimit.Burst = 5
	}
	setDefaultFlag(&cfg.Catalog.Options.ShowID, true)
	setDefaultFlag(&cfg.Catalog.Options.ShowPermit, true)
	setDefaultFlag(&cfg.Catalog.Options.ShowCoordinates, true)
	setDefaultFlag(&cfg.Catalog.Options.ShowInformation, false)
	setDefaultFlag(&cfg.Catalog.Options.ShowPrimaryStar, false)
	setDefaultFlag(&cfg.Catalog.Options.IncludeHidden, false)

	// Worker defaults
	if cfg.Worker.PollInterval == 0 {
		cfg.Worker.PollInterval = 500 * time.Millisecond
	}
	if cfg.Worker.DrainTimeout == 0 {
		cfg.Worker.DrainTimeout = 2 * time.Minute
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "edsm-checker.db"
	}
	if cfg.Database.Type == "postgres" {
		if cfg.Database.Host == "" {
			cfg.Database.Host = "localhost"
		}
		if cfg.Database.Port == 0 {
			cfg.Database.Port = 5432
		}
		if cfg.Database.User == "" {
			cfg.Database.User = "edsm"
		}
		if cfg.Database.Name == "" {
			cfg.Database.Name = "edsm_checker"
		}
		if cfg.Database.SSLMode == "" {
			cfg.Database.SSLMode = "disable"
		}
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = min(2, cfg.Database.Pool.MaxOpen)
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Daemon defaults
	if cfg.Daemon.SocketPath == "" {
		cfg.Daemon.SocketPath = "/tmp/edsm-checker.sock"
	}
	if cfg.Daemon.LockFile == "" {
		cfg.Daemon.LockFile = "/tmp/edsm-checker.lock"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 30 * time.Second
	}
}

func setDefaultFlag(flag **bool, value bool) {
	if *flag == nil {
		v := value
		*flag = &v
	}
}
