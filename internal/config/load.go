package config

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvConfig names a config file when -config is not given.
const EnvConfig = "MMDTOOL_CONFIG"

// Load builds the effective configuration from defaults, then the first
// config file found, then command-line flags, and validates the result.
func Load() (*Config, error) {
	cfg := Default()

	path := ConfigPath()
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, errors.Wrapf(err, "loading config from %s", path)
		}
		cfg.resolveSearchPaths(filepath.Dir(path))
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// findConfigFile returns the project file in the working directory or the
// user-wide file, whichever exists first.
func findConfigFile() string {
	for _, path := range []string{
		"mmdtool.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory for mmdtool.
func ConfigDir() string {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "mmdtool")
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "mmdtool")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mmdtool")
}

// loadFromFile merges a YAML file into cfg. Unknown keys are rejected so a
// misspelled option does not silently fall back to its default.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

// resolveSearchPaths makes relative search paths relative to base, the
// directory holding the config file.
func (c *Config) resolveSearchPaths(base string) {
	for i, p := range c.Assets.SearchPaths {
		if p != "" && !filepath.IsAbs(p) {
			c.Assets.SearchPaths[i] = filepath.Join(base, p)
		}
	}
}
