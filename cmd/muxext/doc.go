// Package main hosts the muxext CLI entrypoint and command graph.
//
// The Cobra-based command tree wraps the generation pipeline: it resolves
// configuration and the FFmpeg binary, runs the classifier, publishes the
// three extension files, and optionally records the run in the history
// database. Inspection commands (muxers, describe, check, history) reuse
// the same internal packages without writing output files.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
