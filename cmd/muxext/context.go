package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"muxext/internal/config"
	"muxext/internal/deps"
	"muxext/internal/logging"
	"muxext/internal/media/ffmpeg"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string
	ffmpegFlag    *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag, ffmpegFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
		ffmpegFlag:    ffmpegFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if level := flagValue(c.logLevelFlag); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if format := flagValue(c.logFormatFlag); format != "" {
			cfg.Logging.Format = strings.ToLower(format)
		}
		if binary := flagValue(c.ffmpegFlag); binary != "" {
			if strings.ContainsAny(binary, `/\`) || strings.HasPrefix(binary, "~") {
				expanded, err := config.ExpandPath(binary)
				if err != nil {
					c.configErr = fmt.Errorf("--ffmpeg: %w", err)
					return
				}
				binary = expanded
			}
			cfg.FFmpeg.Binary = binary
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

// logger builds a logger that writes to the command's stderr.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return logger, nil
}

// ffmpegClient resolves the FFmpeg binary (flag, config, ../resources sidecar,
// PATH) and returns a client for it together with the resolved path.
func (c *commandContext) ffmpegClient(cfg *config.Config, logger *slog.Logger) (*ffmpeg.Client, string) {
	binary := deps.ResolveFFmpegPath(cfg.FFmpeg.Binary, workingDir())
	runner := ffmpeg.ExecRunner{Binary: binary, Timeout: cfg.FFmpegTimeout()}
	return ffmpeg.NewClient(runner, cfg.FFmpeg.HeaderLines, logger), binary
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
