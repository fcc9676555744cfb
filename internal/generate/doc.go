// Package generate runs the extension-list pipeline: probe the FFmpeg
// version, enumerate muxers, fetch and classify each muxer's help text, and
// accumulate the results into a catalog.Catalog that Publish writes to disk.
//
// With one worker the run is strictly sequential. More workers fan the
// describe step over a bounded pool; the written files are identical because
// every output is sorted before serialization.
//
// Only a failure to enumerate muxers aborts a run. A muxer whose help text
// cannot be fetched is logged, counted in Summary.Failed, and left out.
package generate
