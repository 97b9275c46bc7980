package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/patternsynth/pkg/cache"
	"github.com/matzehuels/patternsynth/pkg/observability"
	"github.com/matzehuels/patternsynth/pkg/render"
	"github.com/matzehuels/patternsynth/pkg/spring"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the HTTP server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options, since
// every run builds its own network.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → simulate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stages 1 and 2: Build and simulate
	simStart := time.Now()
	snap, n, hit, err := r.SimulateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	result.Network = n
	result.Snapshot = snap
	result.Stats.SimulateTime = time.Since(simStart)
	result.Stats.LineCount = len(snap.Lines)
	result.Stats.SegmentCount = snap.SegmentCount()
	result.Stats.JointCount = len(snap.Joints)
	result.Stats.Residual = snap.Residual
	result.CacheInfo.NetworkHit = hit

	if data, err := render.MarshalSnapshot(snap); err == nil {
		result.SnapshotHash = cache.Hash(data)
	}

	r.Logger.Info("simulated pattern",
		"pattern", opts.Recipe.Pattern,
		"lines", result.Stats.LineCount,
		"segments", result.Stats.SegmentCount,
		"cached", hit,
		"duration", result.Stats.SimulateTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, snap, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Recipe.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// SimulateWithCacheInfo returns the relaxed snapshot for the recipe, building
// and simulating the network on a cache miss. The network is nil on a hit.
func (r *Runner) SimulateWithCacheInfo(ctx context.Context, opts Options) (render.Snapshot, *spring.Network, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return render.Snapshot{}, nil, false, err
	}
	rc := opts.Recipe
	cacheKey := r.Keyer.NetworkKey(rc.Hash())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if snap, err := render.UnmarshalSnapshot(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "network")
				return snap, nil, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "network")
	}

	hooks := observability.Pipeline()

	hooks.OnBuildStart(ctx, rc.Pattern)
	buildStart := time.Now()
	n, err := Build(rc, opts.Logger)
	lines := 0
	if n != nil {
		lines = len(n.Lines())
	}
	hooks.OnBuildComplete(ctx, rc.Pattern, lines, time.Since(buildStart), err)
	if err != nil {
		return render.Snapshot{}, nil, false, err
	}
	r.Logger.Debug("built network",
		"pattern", rc.Pattern,
		"lines", lines,
		"springs", n.SpringCount(),
		"joints", n.JointCount())

	hooks.OnSimulateStart(ctx, rc.Steps)
	simStart := time.Now()
	residual, err := Simulate(ctx, n, rc.Steps, rc.DT)
	hooks.OnSimulateComplete(ctx, rc.Steps, residual.Angular, time.Since(simStart))
	if err != nil {
		return render.Snapshot{}, nil, false, err
	}

	snap := render.Capture(n, rc.Steps)

	// Cache the result
	if data, err := render.MarshalSnapshot(snap); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLNetwork); err == nil {
			observability.Cache().OnCacheSet(ctx, "network", len(data))
		} else {
			r.Logger.Warn("cache write failed", "stage", "network", "error", err)
		}
	}

	return snap, n, false, nil
}

// Simulate is a convenience wrapper that calls SimulateWithCacheInfo and discards the cache hit info.
func (r *Runner) Simulate(ctx context.Context, opts Options) (render.Snapshot, error) {
	snap, _, _, err := r.SimulateWithCacheInfo(ctx, opts)
	return snap, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, snap render.Snapshot, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	// Compute cache key from snapshot data
	snapData, err := render.MarshalSnapshot(snap)
	if err != nil {
		return nil, false, fmt.Errorf("serialize snapshot for cache key: %w", err)
	}
	snapHash := cache.Hash(snapData)
	formats := opts.Recipe.Formats

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(formats))
		for _, format := range formats {
			key := r.Keyer.ArtifactKey(snapHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, formats)
	start := time.Now()
	rendered, err := Render(ctx, snap, opts)
	hooks.OnRenderComplete(ctx, formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(snapHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, snap render.Snapshot, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, snap, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
