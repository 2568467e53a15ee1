// Package config handles configuration loading, defaults, and path management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ConfigDirName is the name of the hyprmin directory under ~/.config.
	ConfigDirName = "hyprmin"

	// StateDirName is the name of the hyprmin directory under ~/.local/state.
	StateDirName = "hyprmin"

	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "config.yaml"

	// StackFilePrefix is the prefix of the per-user stack file.
	StackFilePrefix = "hypr-minimizer-stack-"
)

// ConfigDir returns the path to the hyprmin config directory
// (~/.config/hyprmin/).
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, ConfigDirName), nil
}

// ConfigFile returns the path to the config.yaml file.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// StateDir returns the path to the hyprmin state directory
// (~/.local/state/hyprmin/), used for daemon logs.
func StateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", StateDirName), nil
}

// EnsureStateDir creates the state directory if it doesn't exist.
func EnsureStateDir() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return dir, os.MkdirAll(dir, 0o755)
}

// StackFile returns the per-user stack file path under the configured base
// directory. The stack is shared by every hyprmin process of the invoking
// user, so the name is keyed by $USER.
func StackFile(baseDir string) (string, error) {
	user := os.Getenv("USER")
	if user == "" {
		return "", fmt.Errorf("the USER environment variable is not set")
	}
	return filepath.Join(baseDir, StackFilePrefix+user), nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
