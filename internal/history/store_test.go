package history_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"muxext/internal/catalog"
	"muxext/internal/generate"
	"muxext/internal/history"
	"muxext/internal/muxer"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func summaryAt(id string, started time.Time, results []muxer.Result) generate.Summary {
	cat := catalog.New()
	for _, r := range results {
		cat.Add(r)
	}
	return generate.Summary{
		RunID:         id,
		FFmpegVersion: "6.1",
		Started:       started,
		Finished:      started.Add(2 * time.Second),
		Counts:        cat.Counts(),
	}
}

func TestRecordAndListRuns(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	results := []muxer.Result{
		{Name: "mp3", Kind: muxer.KindAudio, Extensions: []string{".mp3"}, MimeType: "audio/mpeg"},
		{Name: "null", Kind: muxer.KindSkipped, Reason: muxer.ReasonNoExtensions},
	}
	for i, id := range []string{"first", "second", "third"} {
		if err := store.RecordRun(ctx, summaryAt(id, base.Add(time.Duration(i)*time.Hour), results), results); err != nil {
			t.Fatalf("RecordRun(%s): %v", id, err)
		}
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "third" || runs[1].ID != "second" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
	if runs[0].Muxers != 2 || runs[0].Audio != 1 || runs[0].Skipped != 1 {
		t.Fatalf("unexpected counts: %+v", runs[0].Counts)
	}
	if !runs[0].Started.Equal(base.Add(2*time.Hour)) || runs[0].Finished.Sub(runs[0].Started) != 2*time.Second {
		t.Fatalf("timestamps not preserved: %+v", runs[0])
	}

	all, err := store.ListRuns(ctx, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected 3 runs, got %d (err=%v)", len(all), err)
	}

	entries, err := store.Entries(ctx, "first")
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	want := []history.Entry{
		{Muxer: "mp3", Kind: muxer.KindAudio, Extensions: []string{".mp3"}, MimeType: "audio/mpeg"},
		{Muxer: "null", Kind: muxer.KindSkipped, Extensions: []string{}, Reason: muxer.ReasonNoExtensions},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("entries = %+v, want %+v", entries, want)
	}
}

func TestRecordRunRejectsDuplicateID(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	summary := summaryAt("dup", time.Now(), nil)
	if err := store.RecordRun(ctx, summary, nil); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := store.RecordRun(ctx, summary, nil); err == nil {
		t.Fatal("expected duplicate run id to fail")
	}
	if err := store.RecordRun(ctx, generate.Summary{}, nil); err == nil {
		t.Fatal("expected missing run id to fail")
	}
}

func TestUnknownRun(t *testing.T) {
	store := openStore(t)
	if _, err := store.Entries(context.Background(), "missing"); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := store.GetRun(context.Background(), "missing"); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestDiffRuns(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	before := []muxer.Result{
		{Name: "mp3", Kind: muxer.KindAudio, Extensions: []string{".mp3"}},
		{Name: "mp4", Kind: muxer.KindVideo, Extensions: []string{".mp4"}},
		{Name: "oma", Kind: muxer.KindUnresolved, Extensions: []string{".oma"}, Reason: muxer.ReasonNoSignal},
		{Name: "rm", Kind: muxer.KindVideo, Extensions: []string{".rm"}},
	}
	after := []muxer.Result{
		{Name: "mp3", Kind: muxer.KindAudio, Extensions: []string{".mp3"}},
		{Name: "mp4", Kind: muxer.KindVideo, Extensions: []string{".mp4", ".m4p"}},
		{Name: "oma", Kind: muxer.KindAudio, Extensions: []string{".oma"}},
		{Name: "whip", Kind: muxer.KindVideo, Extensions: []string{".whip"}},
	}
	if err := store.RecordRun(ctx, summaryAt("old", now, before), before); err != nil {
		t.Fatalf("RecordRun old: %v", err)
	}
	if err := store.RecordRun(ctx, summaryAt("new", now.Add(time.Hour), after), after); err != nil {
		t.Fatalf("RecordRun new: %v", err)
	}

	changes, err := store.Diff(ctx, "old", "new")
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	want := []history.Change{
		{Muxer: "mp4", Type: history.ChangeExtensions, FromKind: "video", ToKind: "video", FromExtensions: []string{".mp4"}, ToExtensions: []string{".mp4", ".m4p"}},
		{Muxer: "oma", Type: history.ChangeReclassified, FromKind: "unresolved", ToKind: "audio", FromExtensions: []string{".oma"}, ToExtensions: []string{".oma"}},
		{Muxer: "rm", Type: history.ChangeRemoved, FromKind: "video", FromExtensions: []string{".rm"}},
		{Muxer: "whip", Type: history.ChangeAdded, ToKind: "video", ToExtensions: []string{".whip"}},
	}
	if !reflect.DeepEqual(changes, want) {
		t.Fatalf("changes = %+v\nwant %+v", changes, want)
	}

	same, err := store.Diff(ctx, "new", "new")
	if err != nil || len(same) != 0 {
		t.Fatalf("expected no changes comparing a run with itself, got %v (err=%v)", same, err)
	}
	if _, err := store.Diff(ctx, "old", "missing"); !errors.Is(err, history.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.RecordRun(context.Background(), summaryAt("kept", time.Now(), nil), nil); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if reopened.Path() != path {
		t.Fatalf("unexpected path %q", reopened.Path())
	}
	if _, err := reopened.GetRun(context.Background(), "kept"); err != nil {
		t.Fatalf("GetRun after reopen: %v", err)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := history.Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenRejectsOtherSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	if _, err := history.Open(path); !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}
