package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Load reads the config file from dir, trying .windatlas.yaml first and
// .windatlas.toml second. If neither exists, it returns a zero-value Config
// and nil error.
func Load(dir string) (*Config, error) {
	cfg, found, err := loadYAML(filepath.Join(dir, FileName))
	if err != nil || found {
		return cfg, err
	}
	return loadTOML(filepath.Join(dir, TOMLFileName))
}

// loadYAML reads a YAML config. found is false when the file is missing.
func loadYAML(path string) (cfg *Config, found bool, err error) {
	data, err := os.ReadFile(path) //nolint:gosec // user config path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, false, nil
		}
		return nil, false, err
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, true, fmt.Errorf("%s: %w", path, err)
	}
	return &c, true, nil
}

func loadTOML(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user config path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slog.Warn("ignoring unknown config keys", "file", path, "keys", strings.Join(keys, ", "))
	}
	return &cfg, nil
}

// Write marshals the config to YAML and writes it to w.
func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close() //nolint:errcheck // best-effort close
	enc.SetIndent(2)
	return enc.Encode(cfg)
}

// WriteTOML marshals the config to TOML and writes it to w.
func WriteTOML(w io.Writer, cfg *Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
