package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

const consoleTimeFormat = "15:04:05.000"

// consoleHandler renders one human-readable line per record:
//
//	15:04:05.000 WARN  generate[mp4]: muxer description failed error="exit status 1"
//
// The component and muxer attributes become the line prefix; everything else
// is printed as key=value pairs in the order it was attached.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	addSource bool

	component string
	muxer     string
	// preformatted holds attributes from WithAttrs, already rendered.
	preformatted string
	prefix       string
}

func newConsoleHandler(w io.Writer, level slog.Leveler, addSource bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: level, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	component, muxer := h.component, h.muxer
	var fields strings.Builder
	fields.WriteString(h.preformatted)
	record.Attrs(func(attr slog.Attr) bool {
		if h.prefix == "" {
			switch attr.Key {
			case FieldComponent:
				component = attr.Value.String()
				return true
			case FieldMuxer:
				muxer = attr.Value.String()
				return true
			}
		}
		writeAttr(&fields, h.prefix, attr)
		return true
	})

	var line strings.Builder
	line.Grow(64 + fields.Len())
	line.WriteString(ts.Local().Format(consoleTimeFormat))
	fmt.Fprintf(&line, " %-5s ", levelLabel(record.Level))
	if component != "" {
		line.WriteString(component)
		if muxer != "" {
			line.WriteString("[" + muxer + "]")
		}
		line.WriteString(": ")
	} else if muxer != "" {
		line.WriteString("[" + muxer + "]: ")
	}
	if msg := strings.TrimSpace(record.Message); msg != "" {
		line.WriteString(msg)
	} else {
		line.WriteString("(no message)")
	}
	if h.addSource {
		// Equivalent of slog.Record.Source (Go 1.25+) for older toolchains.
		if record.PC != 0 {
			src, _ := runtime.CallersFrames([]uintptr{record.PC}).Next()
			if src.File != "" {
				fmt.Fprintf(&line, " (%s:%d)", filepath.Base(src.File), src.Line)
			}
		}
	}
	line.WriteString(fields.String())
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := *h
	var fields strings.Builder
	fields.WriteString(h.preformatted)
	for _, attr := range attrs {
		if h.prefix == "" {
			switch attr.Key {
			case FieldComponent:
				next.component = attr.Value.String()
				continue
			case FieldMuxer:
				next.muxer = attr.Value.String()
				continue
			}
		}
		writeAttr(&fields, h.prefix, attr)
	}
	next.preformatted = fields.String()
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

// writeAttr appends " key=value", flattening groups into dotted keys.
func writeAttr(b *strings.Builder, prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}
	if attr.Value.Kind() == slog.KindGroup {
		inner := prefix
		if attr.Key != "" {
			inner = prefix + attr.Key + "."
		}
		for _, member := range attr.Value.Group() {
			writeAttr(b, inner, member)
		}
		return
	}
	if attr.Key == "" {
		return
	}
	b.WriteByte(' ')
	b.WriteString(prefix)
	b.WriteString(attr.Key)
	b.WriteByte('=')
	b.WriteString(consoleValue(attr.Value))
}

func consoleValue(v slog.Value) string {
	var s string
	switch v.Kind() {
	case slog.KindBool:
		return strconv.FormatBool(v.Bool())
	case slog.KindInt64:
		return strconv.FormatInt(v.Int64(), 10)
	case slog.KindUint64:
		return strconv.FormatUint(v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		switch val := v.Any().(type) {
		case error:
			s = val.Error()
		case []string:
			s = strings.Join(val, ",")
		case fmt.Stringer:
			s = val.String()
		default:
			s = fmt.Sprint(val)
		}
	default:
		s = v.String()
	}
	if needsQuotes(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsFunc(s, func(r rune) bool {
		return r <= ' ' || r == '=' || r == '"'
	})
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
