package config

import (
	"fmt"
	"os"
	"strings"

	"muxext/internal/catalog"
)

const (
	envFFmpeg    = "MUXEXT_FFMPEG"
	envOutputDir = "MUXEXT_OUTPUT_DIR"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizeFFmpeg(); err != nil {
		return err
	}
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

// Environment values take precedence over the file.
func (c *Config) applyEnv() {
	if value, ok := os.LookupEnv(envFFmpeg); ok && strings.TrimSpace(value) != "" {
		c.FFmpeg.Binary = value
	}
	if value, ok := os.LookupEnv(envOutputDir); ok && strings.TrimSpace(value) != "" {
		c.Output.Dir = value
	}
}

func (c *Config) normalizeFFmpeg() error {
	binary := strings.TrimSpace(c.FFmpeg.Binary)
	// Bare command names stay as-is for PATH lookup.
	if strings.ContainsAny(binary, `/\`) || strings.HasPrefix(binary, "~") {
		expanded, err := expandPath(binary)
		if err != nil {
			return fmt.Errorf("ffmpeg.binary: %w", err)
		}
		binary = expanded
	}
	c.FFmpeg.Binary = binary
	return nil
}

func (c *Config) normalizeOutput() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = defaultOutputDir
	}
	var err error
	if c.Output.Dir, err = expandPath(strings.TrimSpace(c.Output.Dir)); err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}
	defaults := catalog.DefaultFiles()
	c.Output.VideoFile = orDefault(c.Output.VideoFile, defaults.Video)
	c.Output.AudioFile = orDefault(c.Output.AudioFile, defaults.Audio)
	c.Output.UnresolvedFile = orDefault(c.Output.UnresolvedFile, defaults.Unresolved)
	return nil
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath()
	}
	var err error
	if c.History.Path, err = expandPath(strings.TrimSpace(c.History.Path)); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func orDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}
