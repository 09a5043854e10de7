// Package config handles mmdtool configuration loading and management.
package config

import (
	"github.com/Faultbox/mmdcodec/pkg/encoding"
	"github.com/pkg/errors"
)

// Config holds all tool settings.
type Config struct {
	Codec   CodecConfig   `yaml:"codec"`
	Assets  AssetsConfig  `yaml:"assets"`
	Logging LoggingConfig `yaml:"logging"`
}

// CodecConfig holds parser and exporter options.
type CodecConfig struct {
	Strict       bool   `yaml:"strict"`        // Verify VMD interpolation copies
	TextEncoding string `yaml:"text_encoding"` // Registered encoding name
	ZeroChop     bool   `yaml:"zero_chop"`     // Cut names at the first 0x00
}

// AssetsConfig holds asset lookup settings.
type AssetsConfig struct {
	SearchPaths []string `yaml:"search_paths"` // Roots for models, motions and textures
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Codec: CodecConfig{
			Strict:       true,
			TextEncoding: encoding.DefaultName,
			ZeroChop:     true,
		},
		Assets: AssetsConfig{
			SearchPaths: []string{"."},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks settings that cannot be verified by YAML decoding alone.
func (c *Config) Validate() error {
	codec, err := encoding.Lookup(c.Codec.TextEncoding)
	if err != nil {
		return errors.Wrap(err, "codec.text_encoding")
	}
	if c.Codec.ZeroChop && !codec.ZeroSafe {
		return errors.Errorf("codec.zero_chop: %s cannot be zero-chopped", codec.Name)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	if len(c.Assets.SearchPaths) == 0 {
		return errors.New("assets.search_paths: at least one path required")
	}
	return nil
}

// TextCodec returns the configured text encoding.
func (c *Config) TextCodec() (encoding.Codec, error) {
	return encoding.Lookup(c.Codec.TextEncoding)
}
