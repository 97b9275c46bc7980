// Package pkg provides the libraries behind patternsynth, a synthesizer for
// 2-D line patterns.
//
// # Overview
//
// A pattern is a network of lines. Every line is a chain of small rigid
// bodies joined by springs that pull toward a rest length and a rest angle.
// The rest angles come from a shape function, so the same network relaxes
// into very different drawings depending on the function chosen. The pkg
// directory is organized into these areas:
//
//  1. [shape] - Shape functions that assign rest angles to springs
//  2. [spring] - Springs, lines, networks and the pattern constructors
//  3. [engine/box2d] - The rigid-body engine that integrates the network
//  4. [partition] - Point policies and bounded Voronoi edges
//  5. [recipe] - TOML pattern recipes and presets
//  6. [render] - Snapshots, image sinks and the joint graph
//  7. [pipeline] - Orchestration (build → simulate → render) with caching
//
// # Architecture
//
// The typical data flow:
//
//	recipe.Recipe
//	     ↓
//	[spring] constructor on a [engine/box2d] world (lines, bodies, springs)
//	     ↓
//	Network.Init (pin coincident ends, evaluate shape functions)
//	     ↓
//	Network.Step × N (spring forces, then engine integration)
//	     ↓
//	[render] snapshot → SVG/PNG/JSON/DOT output
//
// # Quick Start
//
//	n := spring.New(box2d.New(), spring.Options{Seed: 42})
//	if err := n.CreateBox(10, shape.Constant, 15); err != nil {
//	    return err
//	}
//	for range 600 {
//	    n.Step(1.0 / 60)
//	}
//	svg, err := sink.RenderSVG(render.Capture(n, 600))
//
// Or let the pipeline do all of it:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Recipe: recipe.Recipe{Pattern: "box", Shape: "constant", Value: 15},
//	})
//
// # Supporting Packages
//
// [cache] - Null, file and redis caches for snapshots and artifacts.
//
// [observability] - Hooks for build, simulate, render, cache and HTTP events.
//
// [errors] - Coded errors shared by every package.
//
// [buildinfo] - Version information set through ldflags.
//
// [shape]: github.com/matzehuels/patternsynth/pkg/shape
// [spring]: github.com/matzehuels/patternsynth/pkg/spring
// [engine/box2d]: github.com/matzehuels/patternsynth/pkg/engine/box2d
// [partition]: github.com/matzehuels/patternsynth/pkg/partition
// [recipe]: github.com/matzehuels/patternsynth/pkg/recipe
// [render]: github.com/matzehuels/patternsynth/pkg/render
// [pipeline]: github.com/matzehuels/patternsynth/pkg/pipeline
// [cache]: github.com/matzehuels/patternsynth/pkg/cache
// [observability]: github.com/matzehuels/patternsynth/pkg/observability
// [errors]: github.com/matzehuels/patternsynth/pkg/errors
// [buildinfo]: github.com/matzehuels/patternsynth/pkg/buildinfo
package pkg
