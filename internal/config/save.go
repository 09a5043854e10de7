package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Save writes the config to the user config directory.
func (c *Config) Save() error {
	return c.SaveTo(filepath.Join(ConfigDir(), "config.yaml"))
}

// SaveTo writes the config to path. The file is written next to its final
// location and renamed into place, so a failed write keeps the old file.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}

	tmp, err := os.CreateTemp(dir, ".mmdtool-*.yaml")
	if err != nil {
		return errors.Wrap(err, "creating temp config")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing config")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "writing config")
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "saving config")
}
