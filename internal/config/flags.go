package config

import (
	"flag"

	"github.com/Faultbox/mmdcodec/pkg/encoding"
)

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagLenient  = flag.Bool("lenient", false, "Accept VMD files with inconsistent interpolation copies")
	flagEncoding = flag.String("encoding", "", "Text encoding for names (shift_jis, euc-jp, euc-kr, windows-1252, utf-16le)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLenient {
		cfg.Codec.Strict = false
	}
	if *flagEncoding != "" {
		cfg.Codec.TextEncoding = *flagEncoding
		if codec, err := encoding.Lookup(*flagEncoding); err == nil && !codec.ZeroSafe {
			cfg.Codec.ZeroChop = false
		}
	}
}
