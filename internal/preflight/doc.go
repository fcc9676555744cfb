// Package preflight provides readiness checks for the FFmpeg binary and the
// filesystem paths muxext writes to.
//
// These checks run in two contexts:
//   - `muxext generate` calls RunAll before querying FFmpeg and refuses to
//     start when any check fails, so a bad output directory is reported
//     before minutes of muxer queries.
//   - `muxext check` renders every result as a status table.
//
// The history check is gated by its config toggle.
package preflight
