package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagBase     = flag.String("base", "", "Asset base (http(s) URL or directory)")
	flagManifest = flag.String("manifest", "", "Manifest path relative to the asset base")
	flagModels   = flag.String("models", "", "Model path prefix relative to the asset base")
	flagWatch    = flag.Bool("watch", false, "Reload the manifest when it changes")
	flagWidth    = flag.Int("width", 0, "Window width")
	flagHeight   = flag.Int("height", 0, "Window height")
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
	if *flagBase != "" {
		cfg.Assets.Base = *flagBase
	}
	if *flagManifest != "" {
		cfg.Assets.Manifest = *flagManifest
	}
	if *flagModels != "" {
		cfg.Assets.ModelsURL = *flagModels
	}
	if *flagWatch {
		cfg.Assets.Watch = true
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
}
