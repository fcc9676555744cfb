package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"muxext/internal/catalog"
	"muxext/internal/generate"
	"muxext/internal/muxer"
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one stored generation run.
type Run struct {
	ID            string    `json:"id"`
	FFmpegVersion string    `json:"ffmpeg_version"`
	Started       time.Time `json:"started"`
	Finished      time.Time `json:"finished"`
	catalog.Counts
	Failed int `json:"failed"`
}

// Entry is the stored classification of one muxer within a run.
type Entry struct {
	Muxer      string     `json:"muxer"`
	Kind       muxer.Kind `json:"kind"`
	Extensions []string   `json:"extensions"`
	MimeType   string     `json:"mime_type,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}

// RecordRun stores a run summary and its per-muxer results in one transaction.
func (s *Store) RecordRun(ctx context.Context, summary generate.Summary, results []muxer.Result) error {
	if strings.TrimSpace(summary.RunID) == "" {
		return errors.New("record run: run id is required")
	}
	return retryOnBusy(ctx, func() error {
		return s.recordRun(ctx, summary, results)
	})
}

func (s *Store) recordRun(ctx context.Context, summary generate.Summary, results []muxer.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs
		(id, ffmpeg_version, started_at, finished_at, muxers, video, audio, unresolved, skipped, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.RunID,
		summary.FFmpegVersion,
		formatTime(summary.Started),
		formatTime(summary.Finished),
		summary.Muxers,
		summary.Video,
		summary.Audio,
		summary.Unresolved,
		summary.Skipped,
		summary.Failed,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", summary.RunID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO entries
		(run_id, muxer, kind, extensions, mime_type, reason)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		exts := r.Extensions
		if exts == nil {
			exts = []string{}
		}
		encoded, err := json.Marshal(exts)
		if err != nil {
			return fmt.Errorf("encode extensions for %s: %w", r.Name, err)
		}
		if _, err := stmt.ExecContext(ctx, summary.RunID, r.Name, r.Kind.String(), string(encoded), r.MimeType, r.Reason); err != nil {
			return fmt.Errorf("insert entry %s: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

const runColumns = `id, ffmpeg_version, started_at, finished_at, muxers, video, audio, unresolved, skipped, failed`

// ListRuns returns up to limit runs, newest first. A non-positive limit returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun loads a single run by id.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// Entries returns the stored muxer entries of a run ordered by muxer name.
func (s *Store) Entries(ctx context.Context, runID string) ([]Entry, error) {
	if _, err := s.GetRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT muxer, kind, extensions, mime_type, reason FROM entries WHERE run_id = ? ORDER BY muxer`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			kind    string
			encoded string
		)
		if err := rows.Scan(&e.Muxer, &kind, &encoded, &e.MimeType, &e.Reason); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if e.Kind, err = muxer.ParseKind(kind); err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.Muxer, err)
		}
		if err := json.Unmarshal([]byte(encoded), &e.Extensions); err != nil {
			return nil, fmt.Errorf("decode extensions for %s: %w", e.Muxer, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run               Run
		started, finished string
	)
	err := row.Scan(
		&run.ID,
		&run.FFmpegVersion,
		&started,
		&finished,
		&run.Muxers,
		&run.Video,
		&run.Audio,
		&run.Unresolved,
		&run.Skipped,
		&run.Failed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Started = parseTime(started)
	run.Finished = parseTime(finished)
	return run, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
