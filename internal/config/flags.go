package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagOutput  = flag.String("o", "", "Output mesh path")
	flagResScal = flag.Float64("resolution-scaling", 0, "Output resolution scaling factor")
	flagGutter  = flag.Int("gutter", -1, "Gutter width between charts in grid units")
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
	if *flagOutput != "" {
		cfg.Output.Path = *flagOutput
	}
	if *flagResScal > 0 {
		cfg.Packing.ResolutionScaling = *flagResScal
	}
	if *flagGutter >= 0 {
		cfg.Packing.GutterWidth = *flagGutter
	}
}
