package config

const (
	defaultDataDir       = "~/.local/share/pulse/data"
	defaultLogDir        = "~/.local/share/pulse/logs"
	defaultSamplerWindow = 5
	defaultTrainerFloor  = 1000
	defaultTrainerKind   = "tree"
	defaultMaxDepth      = 8
	defaultMinLeaf       = 5
	defaultRounds        = 50
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Sampler: Sampler{
			Window: defaultSamplerWindow,
		},
		Trainer: Trainer{
			Floor:    defaultTrainerFloor,
			Kind:     defaultTrainerKind,
			MaxDepth: defaultMaxDepth,
			MinLeaf:  defaultMinLeaf,
			Rounds:   defaultRounds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
