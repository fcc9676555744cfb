// Package history records generation runs in SQLite so classification drift
// between FFmpeg builds can be inspected after the fact.
//
// Each run stores its summary counts plus one entry per described muxer
// (kind, extensions, mime type, unresolved reason). Diff compares two runs
// muxer by muxer. The database is an optional side channel: the JSON files
// written by the generator remain the product, and nothing reads history
// back while generating.
//
// Schema changes bump schemaVersion in schema.go; users delete the database
// to adopt the new schema.
package history
