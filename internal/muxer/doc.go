// Package muxer parses FFmpeg muxer help text and classifies each muxer as a
// video container, an audio-only container, or unresolved.
//
// Everything here is pure: callers hand in the descriptor text printed by
// `ffmpeg -h muxer=NAME` and receive a Result. Fetching that text lives in
// internal/media/ffmpeg, accumulation in internal/catalog.
//
// Classification order:
//   - no "Common extensions:" line: the muxer is skipped entirely
//   - "Mime type:" containing exactly one of video/audio decides
//   - otherwise the "Default <kind> codec:" lines decide: a single audio line
//     means audio, any other non-empty set means video
//   - no signal at all (or a mime type naming both kinds) is unresolved
package muxer
