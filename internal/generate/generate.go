package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"muxext/internal/catalog"
	"muxext/internal/logging"
	"muxext/internal/media/ffmpeg"
	"muxext/internal/muxer"
)

// ErrNoDescriptions reports a run in which every muxer description failed.
var ErrNoDescriptions = errors.New("no muxer could be described")

// Source is the FFmpeg surface the pipeline consumes.
type Source interface {
	Version(ctx context.Context) (string, error)
	ListMuxers(ctx context.Context) ([]string, error)
	Describe(ctx context.Context, name string) (string, error)
}

// Summary describes a finished run.
type Summary struct {
	RunID         string    `json:"run_id"`
	FFmpegVersion string    `json:"ffmpeg_version"`
	Started       time.Time `json:"started"`
	Finished      time.Time `json:"finished"`
	catalog.Counts
	Failed          int      `json:"failed"`
	FailedMuxers    []string `json:"failed_muxers,omitempty"`
	VideoExtensions int      `json:"video_extensions"`
	AudioExtensions int      `json:"audio_extensions"`
}

// Duration returns the wall-clock length of the run.
func (s Summary) Duration() time.Duration {
	return s.Finished.Sub(s.Started)
}

// Generator owns one pipeline configuration.
type Generator struct {
	source  Source
	logger  *slog.Logger
	workers int
	now     func() time.Time
	newID   func() string
}

// Option customizes a Generator.
type Option func(*Generator)

// WithWorkers sets the number of concurrent describe calls; values below 1 mean 1.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n < 1 {
			n = 1
		}
		g.workers = n
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithRunID fixes the run identifier instead of generating a UUID.
func WithRunID(id string) Option {
	return func(g *Generator) { g.newID = func() string { return id } }
}

// New constructs a Generator.
func New(source Source, logger *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		source:  source,
		logger:  logging.NewComponentLogger(logger, "generate"),
		workers: 1,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run executes the pipeline and returns the populated catalog.
func (g *Generator) Run(ctx context.Context) (*catalog.Catalog, Summary, error) {
	summary := Summary{RunID: g.newID(), Started: g.now()}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, g.logger)

	version, err := g.source.Version(ctx)
	switch {
	case errors.Is(err, ffmpeg.ErrBinaryNotFound):
		return nil, summary, err
	case err != nil:
		if ctx.Err() != nil {
			return nil, summary, ctx.Err()
		}
		logger.Warn("ffmpeg version probe failed", logging.Error(err))
		version = "unknown"
	}
	summary.FFmpegVersion = version

	names, err := g.source.ListMuxers(ctx)
	if err != nil {
		return nil, summary, err
	}
	logger.Info("muxers enumerated",
		logging.String("ffmpeg_version", version),
		logging.Int("muxers", len(names)),
		logging.Int("workers", g.workers),
	)

	cat := catalog.New()
	failed, err := g.classifyAll(ctx, logger, names, cat)
	if err != nil {
		return nil, summary, err
	}

	summary.Counts = cat.Counts()
	summary.Failed = len(failed)
	summary.FailedMuxers = failed
	summary.VideoExtensions = len(cat.Video())
	summary.AudioExtensions = len(cat.Audio())
	summary.Finished = g.now()

	logger.Info("muxers classified",
		logging.Int("video", summary.Video),
		logging.Int("audio", summary.Audio),
		logging.Int("unresolved", summary.Unresolved),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Duration("elapsed", summary.Duration()),
	)
	return cat, summary, nil
}

type outcome struct {
	index  int
	result muxer.Result
	err    error
}

// classifyAll describes every muxer and adds the results to cat in listing
// order. Names of muxers whose help text could not be fetched are returned.
func (g *Generator) classifyAll(ctx context.Context, logger *slog.Logger, names []string, cat *catalog.Catalog) ([]string, error) {
	outcomes := make([]outcome, len(names))

	workers := min(g.workers, len(names))
	if workers <= 1 {
		for i, name := range names {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			outcomes[i] = g.describe(ctx, i, name)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					outcomes[i] = g.describe(ctx, i, names[i])
				}
			}()
		}
	feed:
		for i := range names {
			select {
			case jobs <- i:
			case <-ctx.Done():
				break feed
			}
		}
		close(jobs)
		wg.Wait()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var failed []string
	var lastErr error
	for _, o := range outcomes {
		name := names[o.index]
		if o.err != nil {
			if errors.Is(o.err, ffmpeg.ErrBinaryNotFound) {
				return nil, o.err
			}
			lastErr = o.err
			logger.Warn("muxer description failed",
				logging.String(logging.FieldMuxer, name),
				logging.Error(o.err),
			)
			failed = append(failed, name)
			continue
		}
		cat.Add(o.result)
		logClassification(logger, o.result)
	}
	if len(names) > 0 && len(failed) == len(names) {
		return nil, fmt.Errorf("%w: all %d failed, last error: %w", ErrNoDescriptions, len(names), lastErr)
	}
	return failed, nil
}

func (g *Generator) describe(ctx context.Context, index int, name string) outcome {
	text, err := g.source.Describe(ctx, name)
	if err != nil {
		return outcome{index: index, err: err}
	}
	return outcome{index: index, result: muxer.Classify(name, text)}
}

func logClassification(logger *slog.Logger, r muxer.Result) {
	attrs := []logging.Attr{
		logging.String(logging.FieldMuxer, r.Name),
		logging.String(logging.FieldKind, r.Kind.String()),
	}
	switch r.Kind {
	case muxer.KindUnresolved:
		attrs = append(attrs, logging.String("reason", r.Reason))
		if r.Reason == muxer.ReasonAmbiguousMime {
			attrs = append(attrs, logging.Alert("ambiguous_mime"), logging.String("mime_type", r.MimeType))
			logger.Warn("muxer mime type names both video and audio", logging.Args(attrs...)...)
			return
		}
		logger.Info("muxer unresolved", logging.Args(attrs...)...)
	case muxer.KindSkipped:
		logger.Debug("muxer skipped", logging.Args(attrs...)...)
	default:
		attrs = append(attrs, logging.Any("extensions", r.Extensions))
		logger.Debug("muxer classified", logging.Args(attrs...)...)
	}
}

// Describe fetches and classifies a single muxer.
func Describe(ctx context.Context, source Source, name string) (muxer.Result, string, error) {
	text, err := source.Describe(ctx, name)
	if err != nil {
		return muxer.Result{}, "", fmt.Errorf("describe %s: %w", name, err)
	}
	return muxer.Classify(name, text), text, nil
}
