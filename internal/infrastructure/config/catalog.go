package config

import "time"

// CatalogConfig holds EDSM catalog client configuration
type CatalogConfig struct {
	// Base URL serving system, sphere-systems and cube-systems
	SystemsURL string `mapstructure:"systems_url" yaml:"systems_url" validate:"required,url"`

	// Base URL serving bodies
	SystemURL string `mapstructure:"system_url" yaml:"system_url" validate:"required,url"`

	// Timeout for resolution queries
	ResolveTimeout time.Duration `mapstructure:"resolve_timeout" yaml:"resolve_timeout" validate:"required"`

	// Timeout for bodies, sphere and cube queries
	BulkTimeout time.Duration `mapstructure:"bulk_timeout" yaml:"bulk_timeout" validate:"required"`

	// Rate limiting settings
	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`

	// Optional fields requested from the catalog
	Options QueryOptionsConfig `mapstructure:"options" yaml:"options"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second; 0 disables limiting
	Requests float64 `mapstructure:"requests" yaml:"requests" validate:"min=0"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" yaml:"burst" validate:"min=1"`
}

// QueryOptionsConfig mirrors the catalog's show*/include* switches.
// Pointers distinguish "unset" from false so defaults can be applied.
type QueryOptionsConfig struct {
	ShowID          *bool `mapstructure:"show_id" yaml:"show_id"`
	ShowPermit      *bool `mapstructure:"show_permit" yaml:"show_permit"`
	ShowCoordinates *bool `mapstructure:"show_coordinates" yaml:"show_coordinates"`
	ShowInformation *bool `mapstructure:"show_information" yaml:"show_information"`
	ShowPrimaryStar *bool `mapstructure:"show_primary_star" yaml:"show_primary_star"`
	IncludeHidden   *bool `mapstructure:"include_hidden" yaml:"include_hidden"`
}

// Enabled dereferences an option switch; unset counts as false
func Enabled(flag *bool) bool {
	return flag != nil && *flag
}
