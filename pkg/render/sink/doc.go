// Package sink renders pattern snapshots as images and data.
//
// # Overview
//
// A "sink" turns a [render.Snapshot] into a final output format:
//
//   - SVG: one black polyline per line on a white background
//   - PNG: the same drawing rasterized in-process
//   - JSON: the snapshot plus the view it was framed in
//
// All sinks share the same [Option] set, so an SVG and a PNG rendered with
// the same options frame the pattern identically.
//
// # Coordinates
//
// Snapshots are in world units. The view is the snapshot bounds padded by
// [WithMargin]; one world unit becomes [WithScale] pixels. The y axis is not
// flipped, matching screen coordinates.
//
// # Bodies
//
// [WithBodies] additionally draws each simulated body as a small filled
// square, which makes the discretization of every line visible.
//
// [render.Snapshot]: github.com/matzehuels/patternsynth/pkg/render.Snapshot
package sink
