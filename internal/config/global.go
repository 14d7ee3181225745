// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
)

// GlobalConfigDir returns the directory for global windatlas configuration.
// It uses $XDG_CONFIG_HOME/windatlas if set, otherwise ~/.config/windatlas.
func GlobalConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "windatlas")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "windatlas")
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.yaml")
}

// LoadGlobal loads the global config file.
// If the file does not exist, it returns a zero-value Config and nil error.
func LoadGlobal() (*Config, error) {
	cfg, _, err := loadYAML(GlobalConfigPath())
	return cfg, err
}
