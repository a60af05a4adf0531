package config

const (
	defaultConfigPath  = "~/.config/sidecar/config.toml"
	projectConfigName  = "sidecar.toml"
	defaultStateDir    = "~/.local/share/sidecar"
	defaultLogDir      = "~/.local/share/sidecar/logs"
	defaultLedgerName  = "ledger.db"
	defaultScanWorkers = 4
	maxScanWorkers     = 64
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"
)

// defaultMediaExtensions lists the photo and video types Google Takeout
// exports alongside JSON sidecars.
var defaultMediaExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".heic", ".webp",
	".mp4", ".mov", ".m4v", ".3gp", ".avi", ".mkv",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Scan: Scan{
			Workers: defaultScanWorkers,
		},
		Ledger: Ledger{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
