package ffmpeg

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"muxext/internal/logging"
)

// DefaultHeaderLines is the length of the `-muxers` preamble printed by FFmpeg
// releases that end it with a " --" separator on line 4.
const DefaultHeaderLines = 4

var muxerLineRe = regexp.MustCompile(`^ +\S+ +(\S+)`)

// Client issues muxer queries against FFmpeg.
type Client struct {
	runner      Runner
	headerLines int
	logger      *slog.Logger
}

// NewClient builds a client. headerLines < 0 selects DefaultHeaderLines.
func NewClient(runner Runner, headerLines int, logger *slog.Logger) *Client {
	if headerLines < 0 {
		headerLines = DefaultHeaderLines
	}
	return &Client{
		runner:      runner,
		headerLines: headerLines,
		logger:      logging.NewComponentLogger(logger, "ffmpeg"),
	}
}

// ListMuxers returns the muxer names in listing order.
func (c *Client) ListMuxers(ctx context.Context) ([]string, error) {
	out, err := c.runner.Run(ctx, "-hide_banner", "-muxers")
	if err != nil {
		return nil, fmt.Errorf("list muxers: %w", err)
	}
	listing := ParseMuxerList(string(out), c.headerLines)
	if listing.Drift != "" {
		logging.WithContext(ctx, c.logger).Warn("muxer listing header differs from expected layout",
			logging.Alert("contract_drift"),
			logging.Int("header_lines", c.headerLines),
			logging.Int("separator_line", listing.SeparatorLine),
			logging.String("detail", listing.Drift),
		)
	}
	if len(listing.Names) == 0 {
		return nil, ErrNoMuxers
	}
	return listing.Names, nil
}

// Describe returns the raw help text of one muxer.
func (c *Client) Describe(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("describe muxer: empty name")
	}
	out, err := c.runner.Run(ctx, "-hide_banner", "-h", "muxer="+name)
	if err != nil {
		return "", fmt.Errorf("describe muxer %s: %w", name, err)
	}
	return string(out), nil
}

// Version returns the version token printed by `ffmpeg -version`, e.g. "6.1.1".
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.runner.Run(ctx, "-hide_banner", "-version")
	if err != nil {
		return "", fmt.Errorf("ffmpeg version: %w", err)
	}
	return ParseVersion(string(out)), nil
}

// MuxerList is the parsed form of `ffmpeg -muxers`.
type MuxerList struct {
	Names []string
	// SeparatorLine is the 1-based line of the "--" header separator, 0 if absent.
	SeparatorLine int
	// Drift is non-empty when the header did not match headerLines.
	Drift string
}

// ParseMuxerList extracts muxer names from `-muxers` output. The first
// headerLines lines are skipped; when the separator line sits elsewhere the
// separator wins and Drift explains the mismatch. Comma-joined names keep their
// first entry.
func ParseMuxerList(output string, headerLines int) MuxerList {
	lines := strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")

	var list MuxerList
	for i, line := range lines {
		if isSeparator(line) {
			list.SeparatorLine = i + 1
			break
		}
	}

	start := headerLines
	switch {
	case list.SeparatorLine == 0:
		list.Drift = "no separator line found"
	case list.SeparatorLine != headerLines:
		list.Drift = fmt.Sprintf("separator on line %d, expected line %d", list.SeparatorLine, headerLines)
		start = list.SeparatorLine
	}
	if start > len(lines) {
		start = len(lines)
	}

	seen := make(map[string]struct{})
	for _, line := range lines[start:] {
		match := muxerLineRe.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		name, _, _ := strings.Cut(match[1], ",")
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		list.Names = append(list.Names, name)
	}
	return list
}

func isSeparator(line string) bool {
	trimmed := strings.TrimSpace(line)
	return len(trimmed) >= 2 && strings.Trim(trimmed, "-") == ""
}

// ParseVersion extracts the version token from `ffmpeg -version` output.
func ParseVersion(output string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	fields := strings.Fields(first)
	if len(fields) >= 3 && fields[1] == "version" {
		return fields[2]
	}
	return strings.TrimSpace(first)
}
