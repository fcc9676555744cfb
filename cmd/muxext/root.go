package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var logFormatFlag string
	var ffmpegFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFormatFlag, &ffmpegFlag)
	defaults := &generateOptions{}

	rootCmd := &cobra.Command{
		Use:   "muxext",
		Short: "Generate video and audio extension lists from FFmpeg muxers",
		Long: `muxext asks FFmpeg for every muxer it supports, classifies each one as a
video or audio container, and writes video.ext.json, audio.ext.json and
notfound.json. Running it without a subcommand is the same as "muxext generate".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx, defaults)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override logging.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Override logging.format (console, json)")
	rootCmd.PersistentFlags().StringVar(&ffmpegFlag, "ffmpeg", "", "FFmpeg binary to query (overrides ffmpeg.binary and MUXEXT_FFMPEG)")

	rootCmd.AddCommand(newGenerateCommand(ctx))
	rootCmd.AddCommand(newMuxersCommand(ctx))
	rootCmd.AddCommand(newDescribeCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
