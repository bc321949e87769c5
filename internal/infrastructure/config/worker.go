package config

import "time"

// WorkerConfig holds lookup worker configuration
type WorkerConfig struct {
	// How long an idle worker waits before polling the queue again
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval" validate:"required"`

	// How long the one-shot lookup command waits for the queue to drain
	DrainTimeout time.Duration `mapstructure:"drain_timeout" yaml:"drain_timeout" validate:"required"`
}
