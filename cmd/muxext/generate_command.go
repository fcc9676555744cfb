package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"muxext/internal/catalog"
	"muxext/internal/config"
	"muxext/internal/generate"
	"muxext/internal/history"
	"muxext/internal/logging"
	"muxext/internal/preflight"
)

type generateOptions struct {
	outputDir string
	workers   int
	record    bool
	json      bool
}

type generateReport struct {
	generate.Summary
	OutputDir string   `json:"output_dir"`
	Files     []string `json:"files"`
	Recorded  bool     `json:"recorded"`
}

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Classify FFmpeg muxers and write the extension files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, ctx, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Directory for the output files (overrides output.dir)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Concurrent muxer descriptions (overrides generate.workers)")
	cmd.Flags().BoolVar(&opts.record, "record", false, "Record the run in the history database")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the run summary as JSON")
	return cmd
}

func runGenerate(cmd *cobra.Command, ctx *commandContext, opts *generateOptions) error {
	loaded, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg, err := applyGenerateOptions(*loaded, opts)
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cmd)
	if err != nil {
		return err
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}
	if err := preflight.Err(preflight.RunAll(cfg, workingDir())); err != nil {
		return err
	}

	client, binary := ctx.ffmpegClient(cfg, logger)
	logger.Debug("using ffmpeg", logging.String("binary", binary))

	gen := generate.New(client, logger, generate.WithWorkers(cfg.Generate.Workers))
	cat, summary, err := gen.Run(cmd.Context())
	if err != nil {
		return err
	}

	files := cfg.OutputFiles()
	if err := generate.Publish(cmd.Context(), cfg.Output.Dir, files, cat); err != nil {
		return err
	}

	report := generateReport{
		Summary:   summary,
		OutputDir: cfg.Output.Dir,
		Files:     files.Paths(cfg.Output.Dir),
	}
	if opts.record || cfg.History.Enabled {
		report.Recorded = recordRun(cmd, logger, cfg.History.Path, summary, cat)
	}

	if opts.json {
		return writeJSON(cmd, report)
	}
	printGenerateSummary(cmd, report)
	return nil
}

// applyGenerateOptions returns a copy of cfg with command-line overrides applied.
func applyGenerateOptions(cfg config.Config, opts *generateOptions) (*config.Config, error) {
	if dir := strings.TrimSpace(opts.outputDir); dir != "" {
		expanded, err := config.ExpandPath(dir)
		if err != nil {
			return nil, fmt.Errorf("--output-dir: %w", err)
		}
		cfg.Output.Dir = expanded
	}
	if opts.workers != 0 {
		cfg.Generate.Workers = opts.workers
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// recordRun stores the run in the history database. The extension files are
// already written at this point, so failures are logged rather than returned.
func recordRun(cmd *cobra.Command, logger *slog.Logger, path string, summary generate.Summary, cat *catalog.Catalog) bool {
	store, err := history.Open(path)
	if err != nil {
		logger.Warn("history unavailable", logging.String("path", path), logging.Error(err))
		return false
	}
	defer store.Close()
	if err := store.RecordRun(cmd.Context(), summary, cat.Results()); err != nil {
		logger.Warn("history record failed", logging.String(logging.FieldRunID, summary.RunID), logging.Error(err))
		return false
	}
	logger.Debug("run recorded", logging.String("path", path))
	return true
}

func printGenerateSummary(cmd *cobra.Command, report generateReport) {
	out := cmd.OutOrStdout()
	s := report.Summary
	fmt.Fprintf(out, "FFmpeg %s: %d muxers in %s\n", s.FFmpegVersion, s.Muxers+s.Failed, s.Duration().Round(time.Millisecond))
	fmt.Fprintf(out, "  video:      %d muxers, %d extensions\n", s.Video, s.VideoExtensions)
	fmt.Fprintf(out, "  audio:      %d muxers, %d extensions\n", s.Audio, s.AudioExtensions)
	fmt.Fprintf(out, "  unresolved: %d\n", s.Unresolved)
	fmt.Fprintf(out, "  skipped:    %d (no common extensions)\n", s.Skipped)
	if s.Failed > 0 {
		fmt.Fprintf(out, "  failed:     %d (%s)\n", s.Failed, strings.Join(s.FailedMuxers, ", "))
	}
	for _, path := range report.Files {
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
	if report.Recorded {
		fmt.Fprintf(out, "Recorded run %s\n", s.RunID)
	}
}
