package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"muxext/internal/config"
	"muxext/internal/media/ffmpeg"
	"muxext/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify FFmpeg and the output directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			results := preflight.RunAll(cfg, workingDir())
			lines := checkLines(results, colorize)

			client, _ := ctx.ffmpegClient(cfg, logger)
			lines = append(lines, ffmpegVersionLine(cmd.Context(), client, colorize))
			lines = append(lines, historyLine(cfg, colorize))

			if ctx.configPath != "" {
				fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return preflight.Err(results)
		},
	}
}

func checkLines(results []preflight.Result, colorize bool) []string {
	lines := make([]string, 0, len(results))
	for _, r := range results {
		kind := statusOK
		if !r.Passed {
			kind = statusError
		}
		lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
	}
	return lines
}

func ffmpegVersionLine(ctx context.Context, client *ffmpeg.Client, colorize bool) string {
	version, err := client.Version(ctx)
	switch {
	case errors.Is(err, ffmpeg.ErrBinaryNotFound):
		return renderStatusLine("FFmpeg version", statusError, "binary not found", colorize)
	case err != nil:
		return renderStatusLine("FFmpeg version", statusWarn, err.Error(), colorize)
	}
	names, err := client.ListMuxers(ctx)
	if err != nil {
		return renderStatusLine("FFmpeg version", statusWarn, fmt.Sprintf("%s (muxer listing failed: %v)", version, err), colorize)
	}
	return renderStatusLine("FFmpeg version", statusOK, fmt.Sprintf("%s (%d muxers)", version, len(names)), colorize)
}

func historyLine(cfg *config.Config, colorize bool) string {
	path := strings.TrimSpace(cfg.History.Path)
	if !cfg.History.Enabled {
		return renderStatusLine("History", statusInfo, fmt.Sprintf("disabled (--record writes to %s)", path), colorize)
	}
	return renderStatusLine("History", statusOK, path, colorize)
}
