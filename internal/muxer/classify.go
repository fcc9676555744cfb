package muxer

import (
	"fmt"
	"strings"
)

// Kind is the classification assigned to a muxer.
type Kind int

const (
	// KindSkipped marks muxers without a "Common extensions" line.
	KindSkipped Kind = iota
	KindVideo
	KindAudio
	KindUnresolved
)

func (k Kind) String() string {
	switch k {
	case KindSkipped:
		return "skipped"
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	case KindUnresolved:
		return "unresolved"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText renders the kind by name for JSON and TOML encoders.
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindSkipped, KindVideo, KindAudio, KindUnresolved:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("unknown muxer kind %d", int(k))
	}
}

// UnmarshalText parses a kind name produced by MarshalText.
func (k *Kind) UnmarshalText(text []byte) error {
	kind, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "skipped":
		return KindSkipped, nil
	case "video":
		return KindVideo, nil
	case "audio":
		return KindAudio, nil
	case "unresolved":
		return KindUnresolved, nil
	default:
		return KindSkipped, fmt.Errorf("unknown muxer kind %q", value)
	}
}

// Reasons reported for unresolved and skipped muxers.
const (
	ReasonNoExtensions  = "no common extensions"
	ReasonAmbiguousMime = "ambiguous mime type"
	ReasonNoSignal      = "no classification signal"
)

// Result is the classification of a single muxer.
type Result struct {
	Name       string   `json:"name"`
	Kind       Kind     `json:"kind"`
	Extensions []string `json:"extensions,omitempty"`
	MimeType   string   `json:"mime_type,omitempty"`
	Codecs     []string `json:"default_codecs,omitempty"`
	// Reason explains skipped and unresolved results.
	Reason string `json:"reason,omitempty"`
	// Descriptor is the raw help text; kept only for unresolved results.
	Descriptor string `json:"-"`
}

// Classify inspects the descriptor text of one muxer.
func Classify(name, text string) Result {
	result := Result{Name: name}

	exts, ok := ParseExtensions(text)
	if !ok {
		result.Kind = KindSkipped
		result.Reason = ReasonNoExtensions
		return result
	}
	result.Extensions = exts

	mime, hasMime := ParseMimeType(text)
	result.MimeType = mime
	result.Codecs = ParseDefaultCodecs(text)

	if hasMime {
		video := strings.Contains(mime, "video")
		audio := strings.Contains(mime, "audio")
		switch {
		case video && audio:
			return unresolved(result, text, ReasonAmbiguousMime)
		case video:
			result.Kind = KindVideo
			return result
		case audio:
			result.Kind = KindAudio
			return result
		}
	}

	switch {
	case len(result.Codecs) == 1 && result.Codecs[0] == "audio":
		result.Kind = KindAudio
	case len(result.Codecs) > 0:
		result.Kind = KindVideo
	default:
		return unresolved(result, text, ReasonNoSignal)
	}
	return result
}

func unresolved(result Result, text, reason string) Result {
	result.Kind = KindUnresolved
	result.Reason = reason
	result.Descriptor = text
	return result
}
