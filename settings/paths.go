// Package settings resolves the XDG directories paneltrans uses:
//
//	$XDG_CONFIG_HOME/paneltrans/  (default: ~/.config/paneltrans/)
//	  config.yaml     panel settings (languages, auto modes, engine)
//
//	$XDG_STATE_HOME/paneltrans/   (default: ~/.local/state/paneltrans/)
//	  paneltrans.log  rotated log file, when file logging is enabled
package settings

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppName names the directories and the config file search path.
	AppName = "paneltrans"
	// ConfigFileName is the file looked up in ConfigDir.
	ConfigFileName = "config.yaml"
	// LogFileName is the default log file in StateDir.
	LogFileName = "paneltrans.log"
)

func xdgDir(env string, fallback ...string) (string, error) {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	parts := append([]string{home}, fallback...)
	return filepath.Join(append(parts, AppName)...), nil
}

// ConfigDir returns $XDG_CONFIG_HOME/paneltrans (default ~/.config/paneltrans).
func ConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns $XDG_STATE_HOME/paneltrans (default ~/.local/state/paneltrans).
func StateDir() (string, error) {
	return xdgDir("XDG_STATE_HOME", ".local", "state")
}

// ConfigFilePath returns the default config file location.
func ConfigFilePath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// LogFilePath returns the default log file location.
func LogFilePath() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogFileName), nil
}

// EnsureDir creates dir with owner-only permissions.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return nil
}
