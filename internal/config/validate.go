package config

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateGenerate(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.HeaderLines < 0 {
		return errors.New("ffmpeg.header_lines must be >= 0")
	}
	if c.FFmpeg.TimeoutSeconds < 0 {
		return errors.New("ffmpeg.timeout_seconds must be >= 0 (0 disables the timeout)")
	}
	return nil
}

func (c *Config) validateOutput() error {
	names := map[string]string{
		"output.video_file":      c.Output.VideoFile,
		"output.audio_file":      c.Output.AudioFile,
		"output.unresolved_file": c.Output.UnresolvedFile,
	}
	seen := make(map[string]string, len(names))
	for key, name := range names {
		if filepath.Base(name) != name {
			return fmt.Errorf("%s must be a bare file name, got %q", key, name)
		}
		if other, ok := seen[name]; ok {
			return fmt.Errorf("%s and %s must differ (both %q)", other, key, name)
		}
		seen[name] = key
	}
	return nil
}

func (c *Config) validateGenerate() error {
	if c.Generate.Workers < 1 {
		return errors.New("generate.workers must be positive")
	}
	if c.Generate.Workers > MaxWorkers {
		return fmt.Errorf("generate.workers must be <= %d", MaxWorkers)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
