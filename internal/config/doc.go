// Package config loads, normalizes, and validates muxext configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// MUXEXT_FFMPEG and MUXEXT_OUTPUT_DIR. The Config type centralizes every knob
// the generator and CLI need: which FFmpeg binary to query, how to read its
// muxer listing, where the extension files land, and whether runs are
// recorded to the history database.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
