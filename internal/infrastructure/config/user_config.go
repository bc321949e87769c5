package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig represents user preferences stored in ~/.edsm-checker/prefs.json
type UserConfig struct {
	// Sphere radius used when --radius is not given
	DefaultRadius *int `json:"default_radius,omitempty"`

	// Cube edge length used when --size is not given
	DefaultCubeSize *int `json:"default_cube_size,omitempty"`
}

// UserConfigHandler manages loading and saving user preferences
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a handler for the preferences file in the user's home directory
func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewUserConfigHandlerAt(filepath.Join(homeDir, ".edsm-checker", "prefs.json")), nil
}

// NewUserConfigHandlerAt creates a handler for the preferences file at path
func NewUserConfigHandlerAt(path string) *UserConfigHandler {
	return &UserConfigHandler{configPath: path}
}

// Load reads the preferences from disk; a missing file yields empty preferences
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	data, err := os.ReadFile(h.configPath)
	if os.IsNotExist(err) {
		return &UserConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var config UserConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}

	return &config, nil
}

// Save writes the preferences to disk, creating the directory if needed
func (h *UserConfigHandler) Save(config *UserConfig) error {
	if err := os.MkdirAll(filepath.Dir(h.configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(h.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}

	return nil
}

// SetDefaultRadius stores the default sphere radius
func (h *UserConfigHandler) SetDefaultRadius(radius int) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.DefaultRadius = &radius
	return h.Save(config)
}

// SetDefaultCubeSize stores the default cube edge length
func (h *UserConfigHandler) SetDefaultCubeSize(size int) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.DefaultCubeSize = &size
	return h.Save(config)
}

// ClearDefaults removes every stored preference
func (h *UserConfigHandler) ClearDefaults() error {
	return h.Save(&UserConfig{})
}

// GetConfigPath returns the path to the preferences file
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
