package config

import "muxext/internal/catalog"

const (
	defaultConfigPath      = "~/.config/muxext/config.toml"
	projectConfigName      = "muxext.toml"
	defaultHeaderLines     = 4
	defaultTimeoutSeconds  = 30
	defaultOutputDir       = "."
	defaultWorkers         = 1
	defaultHistoryFallback = "~/.local/share/muxext/history.db"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"

	// MaxWorkers bounds generate.workers; FFmpeg help calls are cheap and
	// more processes only add scheduler noise.
	MaxWorkers = 32
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	files := catalog.DefaultFiles()
	return Config{
		FFmpeg: FFmpeg{
			HeaderLines:    defaultHeaderLines,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Output: Output{
			Dir:            defaultOutputDir,
			VideoFile:      files.Video,
			AudioFile:      files.Audio,
			UnresolvedFile: files.Unresolved,
		},
		Generate: Generate{
			Workers: defaultWorkers,
		},
		History: History{
			Path: defaultHistoryPath(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
