package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile   = flag.String("log-file", "", "Also write logs to this file")
	flagEncoding  = flag.String("encoding", "", "Raw sample encoding: u8, u16 or f32")
	flagByteOrder = flag.String("byte-order", "", "Raw sample byte order: little or big")
	flagMaxDepth  = flag.Float64("max-depth", 0, "Largest accepted sample value")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments (command and its operands).
func Args() []string {
	return flag.Args()
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
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagEncoding != "" {
		cfg.Export.Encoding = *flagEncoding
	}
	if *flagByteOrder != "" {
		cfg.Export.ByteOrder = *flagByteOrder
	}
	if *flagMaxDepth > 0 {
		cfg.Export.MaxDepth = *flagMaxDepth
	}
}
