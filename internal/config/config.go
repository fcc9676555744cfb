package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"muxext/internal/catalog"
)

//go:embed sample_config.toml
var sampleConfig string

// FFmpeg describes how the external media tool is located and queried.
type FFmpeg struct {
	// Binary is the ffmpeg executable. Empty means: resources sidecar, then PATH.
	Binary string `toml:"binary"`
	// HeaderLines is the number of introductory lines printed by `-muxers`
	// before the first muxer row.
	HeaderLines    int `toml:"header_lines"`
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// Output names the directory and files the generator writes.
type Output struct {
	Dir            string `toml:"dir"`
	VideoFile      string `toml:"video_file"`
	AudioFile      string `toml:"audio_file"`
	UnresolvedFile string `toml:"unresolved_file"`
}

// Generate tunes the generation pipeline.
type Generate struct {
	Workers int `toml:"workers"`
}

// History controls the SQLite run history.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for muxext.
//
// Configuration sections by subsystem:
//   - FFmpeg: binary location and listing contract
//   - Output: extension file destinations
//   - Generate: worker count for descriptor fetches
//   - History: optional SQLite run history
//   - Logging: log format and level
type Config struct {
	FFmpeg   FFmpeg   `toml:"ffmpeg"`
	Output   Output   `toml:"output"`
	Generate Generate `toml:"generate"`
	History  History  `toml:"history"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the expanded user configuration path.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load reads the configuration at path, or the first existing default
// location when path is empty, applies environment overrides and validates
// the result. It returns the config, the file path consulted and whether that
// file existed; a missing file yields defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := locate(path)
	if err != nil {
		return nil, "", false, err
	}
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	dec := toml.NewDecoder(file).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("parse config %s: %s", path, strict.String())
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// locate resolves an explicit path as given. Without one it tries the user
// config file, then muxext.toml in the working directory, and otherwise
// reports the user config path as absent.
func locate(explicit string) (string, bool, error) {
	if explicit != "" {
		path, err := expandPath(explicit)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return path, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return path, true, nil
	}

	userPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{userPath, projectPath} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return userPath, false, nil
}

// EnsureDirectories creates the output directory and, when history is
// enabled, the directory holding the history database.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", c.Output.Dir, err)
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) != "" {
		dir := filepath.Dir(c.History.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegTimeout returns the per-invocation timeout, or 0 when unlimited.
func (c *Config) FFmpegTimeout() time.Duration {
	if c.FFmpeg.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.FFmpeg.TimeoutSeconds) * time.Second
}

// OutputFiles returns the configured output file names.
func (c *Config) OutputFiles() catalog.Files {
	return catalog.Files{
		Video:      c.Output.VideoFile,
		Audio:      c.Output.AudioFile,
		Unresolved: c.Output.UnresolvedFile,
	}
}

// ExpandPath resolves a leading ~ to the home directory and makes the result
// absolute.
func ExpandPath(value string) (string, error) {
	return expandPath(value)
}

func expandPath(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if rest, ok := strings.CutPrefix(value, "~"); ok && (rest == "" || rest[0] == '/' || rest[0] == '\\') {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = home + rest
	}
	abs, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", value, err)
	}
	return abs, nil
}

func defaultHistoryPath() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "muxext", "history.db")
	}
	return defaultHistoryFallback
}

// CreateSample writes the commented sample configuration to path, creating
// parent directories as needed.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
