package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"muxext/internal/muxer"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

var statusStyles = map[statusKind]struct{ tag, color string }{
	statusInfo:  {"INFO", ansiBlue},
	statusOK:    {"OK", ansiGreen},
	statusWarn:  {"WARN", ansiYellow},
	statusError: {"ERROR", ansiRed},
}

var kindColors = map[muxer.Kind]string{
	muxer.KindVideo:      ansiBlue,
	muxer.KindAudio:      ansiGreen,
	muxer.KindUnresolved: ansiYellow,
}

// renderStatusLine formats "  Label:   [TAG] message" with the label padded
// to a fixed column, optionally wrapped in the status colour.
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	style := statusStyles[kind]
	line := fmt.Sprintf("%s%-*s [%s]", statusIndent, statusLabelWidth, label+":", style.tag)
	if message != "" {
		line += " " + message
	}
	if colorize {
		line = paint(style.color, line)
	}
	return line
}

// colorKind labels a classification, coloured for terminals. Skipped muxers
// stay uncoloured.
func colorKind(kind muxer.Kind, colorize bool) string {
	if !colorize {
		return kind.String()
	}
	return paint(kindColors[kind], kind.String())
}

func paint(color, text string) string {
	if color == "" {
		return text
	}
	return color + text + ansiReset
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
