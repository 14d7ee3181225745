// Copyright 2026 The Windatlas Authors
// SPDX-License-Identifier: MIT

package config

// Environment variables that override the listen address. WINDATLAS_ADDR
// wins over SERVER_PORT.
const (
	EnvAddr = "WINDATLAS_ADDR"
	EnvPort = "SERVER_PORT"
	EnvData = "WINDATLAS_DATA_DIR"
)

// ApplyEnv overrides cfg from the environment, read through getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	switch {
	case getenv(EnvAddr) != "":
		cfg.Addr = getenv(EnvAddr)
	case getenv(EnvPort) != "":
		cfg.Addr = ":" + getenv(EnvPort)
	}
	if dir := getenv(EnvData); dir != "" {
		cfg.DataDir = dir
	}
}
