package config

import (
	"fmt"
)

// Restore targets for un-minimized windows.
const (
	RestoreToActive   = "active"
	RestoreToOriginal = "original"
)

// Config represents the hyprmin configuration.
// This corresponds to ~/.config/hyprmin/config.yaml.
type Config struct {
	// Launcher is the dmenu-style selector command, run via `sh -c`.
	Launcher string `yaml:"launcher"`

	// StackBaseDirectory is the parent directory of the per-user stack file.
	StackBaseDirectory string `yaml:"stack_base_directory"`

	// Workspace is the name of the hidden special workspace that holds
	// minimized windows.
	Workspace string `yaml:"workspace"`

	// RestoreTo selects where activation restores a window: the currently
	// active workspace or the window's original one.
	RestoreTo string `yaml:"restore_to"`

	// PollIntervalSeconds is the cadence of the daemon's reconciliation poll.
	PollIntervalSeconds int `yaml:"poll_interval_seconds"`

	// AutoUnminimizeOnFocus restores a window when the poll finds it focused.
	AutoUnminimizeOnFocus bool `yaml:"auto_unminimize_on_focus"`

	// LogLevel is the daemon log level ("debug", "info", "warn", "error").
	LogLevel string `yaml:"log_level"`
}

// NewConfig creates a configuration with default values.
func NewConfig() *Config {
	return &Config{
		Launcher:              "wofi -dmenu",
		StackBaseDirectory:    "/tmp",
		Workspace:             "minimized",
		RestoreTo:             RestoreToActive,
		PollIntervalSeconds:   2,
		AutoUnminimizeOnFocus: false,
		LogLevel:              "info",
	}
}

// Load reads the configuration from the default path. A missing file yields
// the defaults; no key is required.
func Load() (*Config, error) {
	path, err := ConfigFile()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadYAMLOrDefault(path, NewConfig)
	if err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the configuration to the default path.
func Save(cfg *Config) error {
	path, err := ConfigFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, cfg)
}

// Validate checks the configuration for values the rest of the program
// cannot work with.
func (c *Config) Validate() error {
	if c.RestoreTo != RestoreToActive && c.RestoreTo != RestoreToOriginal {
		return fmt.Errorf("restore_to must be %q or %q, got %q",
			RestoreToActive, RestoreToOriginal, c.RestoreTo)
	}
	if c.Workspace == "" {
		return fmt.Errorf("workspace must not be empty")
	}
	return nil
}

// normalize fills in zero values left by a sparse config file.
func (c *Config) normalize() {
	def := NewConfig()
	if c.Launcher == "" {
		c.Launcher = def.Launcher
	}
	if c.StackBaseDirectory == "" {
		c.StackBaseDirectory = def.StackBaseDirectory
	}
	if c.Workspace == "" {
		c.Workspace = def.Workspace
	}
	if c.RestoreTo == "" {
		c.RestoreTo = def.RestoreTo
	}
	if c.PollIntervalSeconds < 1 {
		c.PollIntervalSeconds = def.PollIntervalSeconds
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}
