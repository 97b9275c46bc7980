// Package pipeline provides the build → simulate → render pipeline shared by
// the CLI and the HTTP server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Build: Construct a spring network from a [recipe.Recipe] on a Box2D world
//  2. Simulate: Step the network toward its rest configuration
//  3. Render: Generate output in various formats (SVG, PNG, JSON, DOT)
//
// Simulation is the expensive stage, so the [Runner] caches its result as a
// [render.Snapshot] keyed by the recipe hash, and caches every rendered
// artifact keyed by the snapshot hash and render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Recipe: recipe.Recipe{Pattern: "voronoi", Shape: "lerp", Value: 10},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	n, err := pipeline.Build(rc, logger)
//	residual, err := pipeline.Simulate(ctx, n, rc.Steps, rc.DT)
//	artifacts, err := pipeline.Render(ctx, render.Capture(n, rc.Steps), opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/patternsynth/pkg/cache"
	"github.com/matzehuels/patternsynth/pkg/errors"
	"github.com/matzehuels/patternsynth/pkg/recipe"
	"github.com/matzehuels/patternsynth/pkg/render"
	"github.com/matzehuels/patternsynth/pkg/render/sink"
	"github.com/matzehuels/patternsynth/pkg/render/topology"
	"github.com/matzehuels/patternsynth/pkg/spring"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Recipe describes the pattern. Its Formats select the artifacts.
	Recipe recipe.Recipe `json:"recipe"`

	// Render options
	Scale    float64 `json:"scale,omitempty"`
	Stroke   float64 `json:"stroke,omitempty"`
	Margin   float64 `json:"margin,omitempty"`
	Bodies   bool    `json:"bodies,omitempty"`
	Detailed bool    `json:"detailed,omitempty"` // Detailed labels in DOT output

	// Refresh skips cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Network is the simulated network. It is nil when the snapshot came
	// from the cache.
	Network *spring.Network

	// Snapshot is the relaxed geometry.
	Snapshot render.Snapshot

	// SnapshotHash is the content hash of the encoded snapshot.
	SnapshotHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LineCount    int
	SegmentCount int
	JointCount   int
	Residual     render.Residual
	SimulateTime time.Duration // Build and simulate together
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	NetworkHit bool // Whether the snapshot came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults validates the recipe and applies render defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.Recipe.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = sink.DefaultScale
	}
	if o.Stroke == 0 {
		o.Stroke = sink.DefaultStroke
	}
	if o.Margin == 0 {
		o.Margin = sink.DefaultMargin
	}
	if err := errors.ValidatePositive("scale", o.Scale); err != nil {
		return err
	}
	if err := errors.ValidatePositive("stroke", o.Stroke); err != nil {
		return err
	}
	if err := errors.ValidatePositive("margin", o.Margin); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SinkOptions returns the options shared by all image sinks.
func (o *Options) SinkOptions() []sink.Option {
	return []sink.Option{
		sink.WithScale(o.Scale),
		sink.WithStroke(o.Stroke),
		sink.WithMargin(o.Margin),
		sink.WithBodies(o.Bodies),
	}
}

// TopologyOptions returns the DOT options.
func (o *Options) TopologyOptions() topology.Options {
	return topology.Options{Detailed: o.Detailed}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case recipe.FormatDOT:
		opts.Detailed = o.Detailed
	default:
		opts.Scale = o.Scale
		opts.Stroke = o.Stroke
		opts.Margin = o.Margin
		opts.Bodies = o.Bodies
	}
	return opts
}
