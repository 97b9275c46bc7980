package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/patternsynth/pkg/errors"
	"github.com/matzehuels/patternsynth/pkg/recipe"
	"github.com/matzehuels/patternsynth/pkg/render"
	"github.com/matzehuels/patternsynth/pkg/render/sink"
	"github.com/matzehuels/patternsynth/pkg/render/topology"
)

// Render generates output artifacts in the recipe's formats.
func Render(ctx context.Context, s render.Snapshot, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(opts.Recipe.Formats))
	for _, format := range opts.Recipe.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := RenderFormat(s, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat generates a single artifact.
func RenderFormat(s render.Snapshot, format string, opts Options) ([]byte, error) {
	switch format {
	case recipe.FormatSVG:
		return sink.RenderSVG(s, opts.SinkOptions()...)
	case recipe.FormatPNG:
		return sink.RenderPNG(s, opts.SinkOptions()...)
	case recipe.FormatJSON:
		return sink.RenderJSON(s, opts.SinkOptions()...)
	case recipe.FormatDOT:
		return []byte(topology.ToDOT(s, opts.TopologyOptions())), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}
