package muxer

import (
	"regexp"
	"strings"
)

var (
	extensionsRe = regexp.MustCompile(`Common extensions: (.+)\.`)
	mimeTypeRe   = regexp.MustCompile(`Mime type: (.+)\.`)
	codecRe      = regexp.MustCompile(`Default (video|audio) codec:`)
)

// ParseExtensions returns the "Common extensions" entries, each trimmed and
// prefixed with a dot. Case is preserved. ok is false when the line is absent.
func ParseExtensions(text string) (exts []string, ok bool) {
	match := extensionsRe.FindStringSubmatch(text)
	if match == nil {
		return nil, false
	}
	for _, part := range strings.Split(match[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		exts = append(exts, "."+part)
	}
	return exts, true
}

// ParseMimeType returns the declared mime type, if any.
func ParseMimeType(text string) (string, bool) {
	match := mimeTypeRe.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// ParseDefaultCodecs returns the kind ("video" or "audio") of every
// "Default <kind> codec:" line in order of appearance.
func ParseDefaultCodecs(text string) []string {
	matches := codecRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	kinds := make([]string, 0, len(matches))
	for _, m := range matches {
		kinds = append(kinds, m[1])
	}
	return kinds
}
