package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/patternsynth/pkg/cache"
	"github.com/matzehuels/patternsynth/pkg/engine/box2d"
	"github.com/matzehuels/patternsynth/pkg/errors"
	"github.com/matzehuels/patternsynth/pkg/recipe"
	"github.com/matzehuels/patternsynth/pkg/render"
	"github.com/matzehuels/patternsynth/pkg/render/sink"
	"github.com/matzehuels/patternsynth/pkg/spring"
)

func captureNow(n *spring.Network) render.Snapshot {
	return render.Capture(n, 0)
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Scale != sink.DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, sink.DefaultScale)
	}
	if opts.Stroke != sink.DefaultStroke {
		t.Errorf("Stroke = %v, want %v", opts.Stroke, sink.DefaultStroke)
	}
	if opts.Recipe.Pattern != recipe.DefaultPattern {
		t.Errorf("Pattern = %q, want %q", opts.Recipe.Pattern, recipe.DefaultPattern)
	}
	if opts.Logger == nil {
		t.Error("Logger = nil, want discard logger")
	}
}

func TestOptionsInvalid(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"pattern", Options{Recipe: recipe.Recipe{Pattern: "spiral"}}, errors.ErrCodeInvalidPattern},
		{"format", Options{Recipe: recipe.Recipe{Formats: []string{"gif"}}}, errors.ErrCodeInvalidFormat},
		{"scale", Options{Scale: -1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Scale: 10, Stroke: 2, Bodies: true, Detailed: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}

	svg := opts.ArtifactKeyOpts(recipe.FormatSVG)
	if svg.Scale != 10 || svg.Stroke != 2 || !svg.Bodies || svg.Detailed {
		t.Errorf("svg key opts = %+v", svg)
	}
	dot := opts.ArtifactKeyOpts(recipe.FormatDOT)
	if dot.Scale != 0 || dot.Bodies || !dot.Detailed {
		t.Errorf("dot key opts = %+v, want only Detailed", dot)
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		rc        recipe.Recipe
		wantLines int
	}{
		{recipe.Recipe{Pattern: recipe.PatternBox, Segments: 4}, 4},
		{recipe.Recipe{Pattern: recipe.PatternTree, Depth: 3}, 7},
		{recipe.Recipe{Pattern: recipe.PatternRandomTree, Depth: 2}, 3},
		{recipe.Recipe{Pattern: recipe.PatternSquiggle, Segments: 5}, 3},
		{recipe.Recipe{Pattern: recipe.PatternLine, Shape: "sequential-sine", Value: 1}, 1},
		{recipe.Recipe{Pattern: recipe.PatternVoronoi, Points: 9, Distribution: "grid", Width: 12, Height: 12}, 24},
		{recipe.Recipe{Pattern: recipe.PatternVoronoi, Points: 9, Distribution: "grid", Width: 12, Height: 12, Matcher: recipe.MatcherGrid}, 24},
	}
	for _, tt := range tests {
		t.Run(tt.rc.Pattern, func(t *testing.T) {
			n, err := Build(tt.rc, nil)
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if got := len(n.Lines()); got != tt.wantLines {
				t.Errorf("lines = %d, want %d", got, tt.wantLines)
			}
			if !n.Ready() {
				t.Error("network not initialized")
			}
		})
	}
}

func TestBuildInvalid(t *testing.T) {
	_, err := Build(recipe.Recipe{Pattern: "spiral"}, nil)
	if !errors.Is(err, errors.ErrCodeInvalidPattern) {
		t.Errorf("Build() error = %v, want INVALID_PATTERN", err)
	}
}

func TestBuildCanvasLimit(t *testing.T) {
	_, err := Build(recipe.Recipe{Pattern: recipe.PatternVoronoi, Points: 1, Width: 1e9, Height: 1e9}, nil)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Build() error = %v, want INVALID_INPUT", err)
	}
}

func TestCheckSprings(t *testing.T) {
	edges := []spring.Edge{
		{A: r2.Vec{}, B: r2.Vec{X: 10}},        // 20 segments
		{A: r2.Vec{X: 10}, B: r2.Vec{X: 10.1}}, // 1 segment
	}
	tests := []struct {
		limit   int
		wantErr bool
	}{
		{21, false},
		{20, true},
		{recipe.MaxSprings, false},
	}
	for _, tt := range tests {
		err := checkSprings(edges, tt.limit)
		if (err != nil) != tt.wantErr {
			t.Errorf("checkSprings(limit %d) error = %v, wantErr %v", tt.limit, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("checkSprings(limit %d) code = %s, want INVALID_INPUT", tt.limit, errors.GetCode(err))
		}
	}
}

func TestSimulateUninitialized(t *testing.T) {
	n := spring.New(box2d.New(), spring.Options{Seed: 1})
	if _, err := Simulate(context.Background(), n, 1, recipe.DefaultDT); !errors.Is(err, errors.ErrCodeInvalidState) {
		t.Errorf("Simulate() error = %v, want INVALID_STATE", err)
	}
}

func TestSimulateCancelled(t *testing.T) {
	n, err := Build(recipe.Recipe{Pattern: recipe.PatternBox}, nil)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Simulate(ctx, n, 100, recipe.DefaultDT)
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("Simulate() error = %v, want TIMEOUT", err)
	}
}

func TestSimulateRelaxes(t *testing.T) {
	n, err := Build(recipe.Recipe{Pattern: recipe.PatternBox, Segments: 4, Value: 15}, nil)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	before := n.Residual().Angular
	after, err := Simulate(context.Background(), n, 300, recipe.DefaultDT)
	if err != nil {
		t.Fatalf("Simulate() error: %v", err)
	}
	if after.Angular >= before {
		t.Errorf("angular residual = %v, want below %v", after.Angular, before)
	}
}

func TestRenderFormat(t *testing.T) {
	n, err := Build(recipe.Recipe{Pattern: recipe.PatternSquiggle, Segments: 3}, nil)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	opts := Options{Recipe: recipe.Recipe{Formats: []string{"svg", "png", "json", "dot"}}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}

	artifacts, err := Render(context.Background(), captureNow(n), opts)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	checks := map[string]func([]byte) bool{
		"svg":  func(b []byte) bool { return bytes.HasPrefix(b, []byte("<svg")) },
		"png":  func(b []byte) bool { return bytes.HasPrefix(b, []byte("\x89PNG")) },
		"json": func(b []byte) bool { return bytes.HasPrefix(b, []byte("{")) },
		"dot":  func(b []byte) bool { return strings.HasPrefix(string(b), "graph G {") },
	}
	for format, ok := range checks {
		if !ok(artifacts[format]) {
			t.Errorf("artifact %s is malformed: %.40q", format, artifacts[format])
		}
	}

	if _, err := RenderFormat(captureNow(n), "gif", opts); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("RenderFormat(gif) error = %v, want INVALID_FORMAT", err)
	}
}

func TestRunnerCaching(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()

	opts := Options{Recipe: recipe.Recipe{
		Pattern: recipe.PatternBox,
		Steps:   20,
		Formats: []string{"svg", "json"},
	}}
	ctx := context.Background()

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheInfo.NetworkHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if first.Network == nil {
		t.Error("first run Network = nil")
	}
	if first.Stats.LineCount != 4 || first.Stats.JointCount != 4 {
		t.Errorf("Stats = %+v, want 4 lines and 4 joints", first.Stats)
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheInfo.NetworkHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if second.Network != nil {
		t.Error("cached run Network != nil")
	}
	if second.SnapshotHash != first.SnapshotHash {
		t.Errorf("SnapshotHash = %s, want %s", second.SnapshotHash, first.SnapshotHash)
	}
	if !bytes.Equal(second.Artifacts["svg"], first.Artifacts["svg"]) {
		t.Error("cached svg differs")
	}

	// A different recipe misses.
	opts.Recipe.Seed = 7
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if third.CacheInfo.NetworkHit {
		t.Error("changed recipe hit the network cache")
	}

	// Refresh skips reads.
	opts.Refresh = true
	fourth, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if fourth.CacheInfo.NetworkHit || fourth.CacheInfo.RenderHit {
		t.Errorf("refresh CacheInfo = %+v, want misses", fourth.CacheInfo)
	}
}

func TestRunnerDeterministic(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := Options{Recipe: recipe.Recipe{
		Pattern:      recipe.PatternVoronoi,
		Points:       12,
		Distribution: "stratified",
		Shape:        "randomized",
		Value:        0.5,
		Steps:        30,
		Seed:         11,
		Formats:      []string{"json"},
	}}
	a, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	b, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if a.SnapshotHash != b.SnapshotHash {
		t.Errorf("SnapshotHash differs between identical runs: %s != %s", a.SnapshotHash, b.SnapshotHash)
	}
}
