// Package ffmpeg queries an FFmpeg binary for its muxers and their help text.
//
// This package has no muxext-specific dependencies beyond slog and treats
// FFmpeg's human-readable output as a versioned, fragile contract: the muxer
// listing header is validated against its "--" separator and drift is logged.
//
// Key types:
//   - Runner: executes the binary; ExecRunner is the os/exec implementation
//   - Client: ListMuxers, Describe, and Version on top of a Runner
//   - ExitError: non-zero exit with captured stderr
//
// ErrBinaryNotFound and ErrNoMuxers report total failures of the tool so
// callers fail fast instead of producing empty output.
package ffmpeg
