package config

import "time"

// DaemonConfig holds daemon service configuration
type DaemonConfig struct {
	// Unix socket path for the gRPC lookup service
	SocketPath string `mapstructure:"socket_path" yaml:"socket_path" validate:"required"`

	// Lock file enforcing a single daemon instance
	LockFile string `mapstructure:"lock_file" yaml:"lock_file" validate:"required"`

	// HTTP listen address for status, enqueue and metrics; empty disables the HTTP server
	HTTPAddress string `mapstructure:"http_address" yaml:"http_address" validate:"omitempty,hostname_port"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" validate:"required"`
}
