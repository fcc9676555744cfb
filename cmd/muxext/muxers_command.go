package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"muxext/internal/generate"
	"muxext/internal/muxer"
)

type muxersReport struct {
	generate.Summary
	Results []muxer.Result `json:"results"`
}

func newMuxersCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		workers    int
		kindFilter string
	)
	cmd := &cobra.Command{
		Use:   "muxers",
		Short: "List every FFmpeg muxer with its classification",
		Long:  "Runs the classifier without writing any files.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := applyGenerateOptions(*loaded, &generateOptions{workers: workers})
			if err != nil {
				return err
			}
			var filter *muxer.Kind
			if value := strings.TrimSpace(kindFilter); value != "" {
				kind, err := muxer.ParseKind(strings.ToLower(value))
				if err != nil {
					return fmt.Errorf("--kind: %w", err)
				}
				filter = &kind
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			client, _ := ctx.ffmpegClient(cfg, logger)
			cat, summary, err := generate.New(client, logger, generate.WithWorkers(cfg.Generate.Workers)).Run(cmd.Context())
			if err != nil {
				return err
			}

			results := cat.Results()
			if filter != nil {
				kept := results[:0]
				for _, r := range results {
					if r.Kind == *filter {
						kept = append(kept, r)
					}
				}
				results = kept
			}

			if jsonOutput {
				if results == nil {
					results = []muxer.Result{}
				}
				return writeJSON(cmd, muxersReport{Summary: summary, Results: results})
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, renderTable(muxerTable(results, colorize)))
			fmt.Fprintf(out, "FFmpeg %s: %d video, %d audio, %d unresolved, %d skipped, %d failed\n",
				summary.FFmpegVersion, summary.Video, summary.Audio, summary.Unresolved, summary.Skipped, summary.Failed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent muxer descriptions (overrides generate.workers)")
	cmd.Flags().StringVar(&kindFilter, "kind", "", "Only show muxers of this kind (video, audio, unresolved, skipped)")
	return cmd
}

func muxerTable(results []muxer.Result, colorize bool) tableSpec {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		detail := r.MimeType
		if r.Reason != "" {
			detail = r.Reason
		}
		rows = append(rows, []string{
			r.Name,
			colorKind(r.Kind, colorize),
			strings.Join(r.Extensions, " "),
			detail,
		})
	}
	return tableSpec{
		headers: []string{"Muxer", "Kind", "Extensions", "Detail"},
		rows:    rows,
		footer:  []string{"Total", strconv.Itoa(len(results))},
	}
}
