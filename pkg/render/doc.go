// Package render turns relaxed spring networks into output formats.
//
// # Overview
//
// Rendering works on a [Snapshot]: a plain, serializable copy of a network's
// line polylines and joints taken with [Capture]. Snapshots are what the
// pipeline caches, so rendering never needs a live network or engine.
//
// Output packages:
//   - [sink]: SVG, PNG and JSON images of the pattern
//   - [topology]: the joint graph as Graphviz DOT and SVG
//
//	snap := render.Capture(network, steps)
//	svg := sink.RenderSVG(snap, sink.WithStroke(0.1))
//	png, err := sink.RenderPNG(snap, sink.WithScale(30))
//
// [sink]: github.com/matzehuels/patternsynth/pkg/render/sink
// [topology]: github.com/matzehuels/patternsynth/pkg/render/topology
package render
