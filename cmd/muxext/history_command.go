package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"muxext/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded generation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					if runs == nil {
						runs = []history.Run{}
					}
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				fmt.Fprintln(out, renderTable(runsTable(runs)))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	cmd.AddCommand(newHistoryDiffCommand(ctx))
	return cmd
}

func newHistoryDiffCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "diff [FROM] [TO]",
		Short: "Compare the classifications of two runs",
		Long: `Compare two recorded runs muxer by muxer. With no arguments the two most
recent runs are compared; with one argument that run is compared to the most
recent one.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				from, to, err := resolveDiffRuns(cmd, store, args)
				if err != nil {
					return err
				}
				changes, err := store.Diff(cmd.Context(), from, to)
				if err != nil {
					return err
				}
				if jsonOutput {
					if changes == nil {
						changes = []history.Change{}
					}
					return writeJSON(cmd, changes)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s -> %s\n", from, to)
				if len(changes) == 0 {
					fmt.Fprintln(out, "No classification changes")
					return nil
				}
				fmt.Fprintln(out, renderTable(changesTable(changes)))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func resolveDiffRuns(cmd *cobra.Command, store *history.Store, args []string) (string, string, error) {
	if len(args) == 2 {
		return args[0], args[1], nil
	}
	runs, err := store.ListRuns(cmd.Context(), 2)
	if err != nil {
		return "", "", err
	}
	if len(args) == 1 {
		if len(runs) == 0 {
			return "", "", errors.New("no runs recorded")
		}
		return args[0], runs[0].ID, nil
	}
	if len(runs) < 2 {
		return "", "", errors.New("need at least two recorded runs to diff")
	}
	return runs[1].ID, runs[0].ID, nil
}

// withHistory opens the configured history database. It refuses to create a
// new database for read-only commands.
func (c *commandContext) withHistory(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.History.Path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("no history database at %s (run generate with --record first)", cfg.History.Path)
		}
		return fmt.Errorf("stat history database: %w", err)
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func runsTable(runs []history.Run) tableSpec {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			run.Started.Local().Format("2006-01-02 15:04:05"),
			run.FFmpegVersion,
			strconv.Itoa(run.Video),
			strconv.Itoa(run.Audio),
			strconv.Itoa(run.Unresolved),
			strconv.Itoa(run.Skipped),
			strconv.Itoa(run.Failed),
		})
	}
	return tableSpec{
		headers: []string{"Run", "Started", "FFmpeg", "Video", "Audio", "Unresolved", "Skipped", "Failed"},
		rows:    rows,
		aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	}
}

func changesTable(changes []history.Change) tableSpec {
	rows := make([][]string, 0, len(changes))
	for _, c := range changes {
		rows = append(rows, []string{
			c.Muxer,
			string(c.Type),
			orDash(c.FromKind) + " -> " + orDash(c.ToKind),
			orDash(strings.Join(c.FromExtensions, " ")) + " -> " + orDash(strings.Join(c.ToExtensions, " ")),
		})
	}
	return tableSpec{
		headers: []string{"Muxer", "Change", "Kind", "Extensions"},
		rows:    rows,
	}
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
