package ffmpeg

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBinaryNotFound reports that the configured FFmpeg executable could not be started.
	ErrBinaryNotFound = errors.New("ffmpeg binary not found")
	// ErrNoMuxers reports a muxer listing with no recognizable rows.
	ErrNoMuxers = errors.New("ffmpeg listed no muxers")
)

// ExitError describes an FFmpeg invocation that exited with a non-zero status.
type ExitError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("ffmpeg %s: exit status %d", strings.Join(e.Args, " "), e.ExitCode)
	if detail := lastLine(e.Stderr); detail != "" {
		msg += ": " + detail
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

func lastLine(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		return strings.TrimSpace(text[idx+1:])
	}
	return text
}
