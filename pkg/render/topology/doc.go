// Package topology renders the joint graph of a pattern.
//
// # Overview
//
// Every line of a pattern is a node and every pin between two line ends is an
// edge. The graph shows how a pattern was stitched together independently of
// its geometry, which helps when a partition or tree does not connect the
// way it should.
//
// # Usage
//
//	dot := topology.ToDOT(snap, topology.Options{Detailed: true})
//	svg, err := topology.RenderSVG(ctx, dot)
//
// Dynamic lines are drawn filled, static lines outlined. Edge labels name
// the two ends that were joined.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package topology
