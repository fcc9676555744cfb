package generate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"muxext/internal/catalog"
	"muxext/internal/logging"
	"muxext/internal/media/ffmpeg"
	"muxext/internal/muxer"
)

type fakeSource struct {
	mu          sync.Mutex
	version     string
	versionErr  error
	names       []string
	listErr     error
	descriptors map[string]string
	describeErr map[string]error
	described   []string
}

func (f *fakeSource) Version(context.Context) (string, error) {
	return f.version, f.versionErr
}

func (f *fakeSource) ListMuxers(context.Context) ([]string, error) {
	return f.names, f.listErr
}

func (f *fakeSource) Describe(ctx context.Context, name string) (string, error) {
	f.mu.Lock()
	f.described = append(f.described, name)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err, ok := f.describeErr[name]; ok {
		return "", err
	}
	return f.descriptors[name], nil
}

func sampleSource() *fakeSource {
	return &fakeSource{
		version: "6.1.1",
		names:   []string{"mp4", "mp3", "matroska", "webm", "ac3", "srt", "null", "ipod"},
		descriptors: map[string]string{
			"mp4":      "Muxer mp4 [MP4]:\n    Common extensions: mp4.\n    Mime type: video/mp4.\n    Default video codec: h264.\n    Default audio codec: aac.\n",
			"mp3":      "Muxer mp3 [MP3]:\n    Common extensions: mp3.\n    Mime type: audio/mpeg.\n    Default video codec: png.\n    Default audio codec: mp3.\n",
			"matroska": "Muxer matroska [Matroska]:\n    Common extensions: mkv.\n    Mime type: video/x-matroska.\n",
			"webm":     "Muxer webm [WebM]:\n    Common extensions: webm.\n    Mime type: video/webm.\n",
			"ac3":      "Muxer ac3 [raw AC-3]:\n    Common extensions: ac3.\n    Default audio codec: ac3.\n",
			"srt":      "Muxer srt [SubRip subtitle]:\n    Common extensions: srt.\n    Default subtitle codec: subrip.\n",
			"null":     "Muxer null [raw null video]:\n    Default audio codec: pcm_s16le.\n    Default video codec: wrapped_avframe.\n",
			"ipod":     "Muxer ipod [iPod H.264 MP4 (MPEG-4 Part 14)]:\n    Common extensions: m4v,m4a,m4b.\n    Default video codec: h264.\n    Default audio codec: aac.\n",
		},
	}
}

func TestRunClassifiesMuxers(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	gen := New(sampleSource(), logging.NewNop(), WithRunID("run-1"), WithClock(func() time.Time { return fixed }))

	cat, summary, err := gen.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got, want := cat.Video(), []string{".m4a", ".m4b", ".m4v", ".mkv", ".mp4", ".webm"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("video = %v, want %v", got, want)
	}
	if got, want := cat.Audio(), []string{".ac3", ".mp3"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("audio = %v, want %v", got, want)
	}
	unresolved := cat.Unresolved()
	if len(unresolved) != 1 || unresolved["srt"] == "" {
		t.Fatalf("expected only srt unresolved, got %v", unresolved)
	}
	if _, ok := unresolved["null"]; ok {
		t.Fatal("muxer without extensions must not be unresolved")
	}

	if summary.RunID != "run-1" || summary.FFmpegVersion != "6.1.1" {
		t.Fatalf("unexpected summary identity: %+v", summary)
	}
	want := catalog.Counts{Muxers: 8, Video: 4, Audio: 2, Unresolved: 1, Skipped: 1}
	if summary.Counts != want {
		t.Fatalf("counts = %+v, want %+v", summary.Counts, want)
	}
	if summary.VideoExtensions != 6 || summary.AudioExtensions != 2 {
		t.Fatalf("unexpected extension totals: %+v", summary)
	}
	if summary.Duration() != 0 {
		t.Fatalf("expected zero duration with fixed clock, got %v", summary.Duration())
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	seqCat, _, err := New(sampleSource(), nil).Run(context.Background())
	if err != nil {
		t.Fatalf("sequential Run: %v", err)
	}
	parCat, _, err := New(sampleSource(), nil, WithWorkers(4)).Run(context.Background())
	if err != nil {
		t.Fatalf("parallel Run: %v", err)
	}
	if !reflect.DeepEqual(seqCat.Video(), parCat.Video()) {
		t.Fatalf("video differs: %v vs %v", seqCat.Video(), parCat.Video())
	}
	if !reflect.DeepEqual(seqCat.Audio(), parCat.Audio()) {
		t.Fatalf("audio differs: %v vs %v", seqCat.Audio(), parCat.Audio())
	}
	if !reflect.DeepEqual(seqCat.Unresolved(), parCat.Unresolved()) {
		t.Fatalf("unresolved differs")
	}
	if !reflect.DeepEqual(seqCat.Results(), parCat.Results()) {
		t.Fatalf("results differ")
	}
}

func TestRunSkipsFailedDescriptions(t *testing.T) {
	src := sampleSource()
	src.describeErr = map[string]error{"webm": &ffmpeg.ExitError{Args: []string{"-h", "muxer=webm"}, ExitCode: 1}}

	cat, summary, err := New(src, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Failed != 1 || !reflect.DeepEqual(summary.FailedMuxers, []string{"webm"}) {
		t.Fatalf("unexpected failures: %+v", summary)
	}
	for _, ext := range cat.Video() {
		if ext == ".webm" {
			t.Fatal("failed muxer must not contribute extensions")
		}
	}
}

func TestRunFailsWhenEveryDescriptionFails(t *testing.T) {
	src := sampleSource()
	src.describeErr = make(map[string]error, len(src.names))
	for _, name := range src.names {
		src.describeErr[name] = &ffmpeg.ExitError{Args: []string{"-h", "muxer=" + name}, ExitCode: 1}
	}

	for _, workers := range []int{1, 4} {
		cat, _, err := New(src, nil, WithWorkers(workers)).Run(context.Background())
		if !errors.Is(err, ErrNoDescriptions) {
			t.Fatalf("workers=%d: expected ErrNoDescriptions, got %v", workers, err)
		}
		var exitErr *ffmpeg.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("workers=%d: expected the last ExitError to be wrapped, got %v", workers, err)
		}
		if cat != nil {
			t.Fatalf("workers=%d: expected no catalog to publish", workers)
		}
	}
}

func TestRunAbortsWhenBinaryDisappears(t *testing.T) {
	src := sampleSource()
	src.describeErr = map[string]error{"mp3": ffmpeg.ErrBinaryNotFound}
	if _, _, err := New(src, nil).Run(context.Background()); !errors.Is(err, ffmpeg.ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound, got %v", err)
	}
}

func TestRunFailsFast(t *testing.T) {
	missing := sampleSource()
	missing.versionErr = fmt.Errorf("ffmpeg version: %w", ffmpeg.ErrBinaryNotFound)
	if _, _, err := New(missing, nil).Run(context.Background()); !errors.Is(err, ffmpeg.ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound, got %v", err)
	}
	if len(missing.described) != 0 {
		t.Fatalf("no muxer should be described when the binary is missing, got %v", missing.described)
	}

	empty := sampleSource()
	empty.listErr = ffmpeg.ErrNoMuxers
	if _, _, err := New(empty, nil).Run(context.Background()); !errors.Is(err, ffmpeg.ErrNoMuxers) {
		t.Fatalf("expected ErrNoMuxers, got %v", err)
	}
}

func TestRunToleratesVersionProbeFailure(t *testing.T) {
	src := sampleSource()
	src.versionErr = &ffmpeg.ExitError{Args: []string{"-version"}, ExitCode: 1}
	_, summary, err := New(src, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.FFmpegVersion != "unknown" {
		t.Fatalf("expected unknown version, got %q", summary.FFmpegVersion)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, workers := range []int{1, 4} {
		if _, _, err := New(sampleSource(), nil, WithWorkers(workers)).Run(ctx); !errors.Is(err, context.Canceled) {
			t.Fatalf("workers=%d: expected context.Canceled, got %v", workers, err)
		}
	}
}

func TestDescribeSingleMuxer(t *testing.T) {
	result, text, err := Describe(context.Background(), sampleSource(), "ac3")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if result.Kind != muxer.KindAudio || text == "" {
		t.Fatalf("unexpected result: %+v", result)
	}

	src := sampleSource()
	src.describeErr = map[string]error{"ac3": errors.New("boom")}
	if _, _, err := Describe(context.Background(), src, "ac3"); err == nil {
		t.Fatal("expected describe error")
	}
}

func TestPublishWritesFiles(t *testing.T) {
	dir := t.TempDir()
	cat, _, err := New(sampleSource(), nil).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	files := catalog.DefaultFiles()
	if err := Publish(context.Background(), dir, files, cat); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	for _, path := range files.Paths(dir) {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s to exist: %v", filepath.Base(path), err)
		}
	}
}

func TestPublishRespectsLock(t *testing.T) {
	dir := t.TempDir()
	holder := flock.New(filepath.Join(dir, LockFileName))
	locked, err := holder.TryLock()
	if err != nil || !locked {
		t.Fatalf("acquire test lock: locked=%v err=%v", locked, err)
	}
	defer func() { _ = holder.Unlock() }()

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	err = Publish(ctx, dir, catalog.DefaultFiles(), catalog.New())
	if !errors.Is(err, ErrOutputLocked) {
		t.Fatalf("expected ErrOutputLocked, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "video.ext.json")); !os.IsNotExist(statErr) {
		t.Fatal("no file should be written while the directory is locked")
	}
}
