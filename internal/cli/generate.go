package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/patternsynth/pkg/pipeline"
)

// generateCommand creates the generate command, the full build → simulate →
// render pipeline.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		flags   recipeFlags
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "generate [recipe.toml]",
		Short: "Simulate a pattern and write it to SVG, PNG, JSON or DOT",
		Long: `Simulate a pattern and write it to SVG, PNG, JSON or DOT.

The pattern comes from a TOML recipe file, a built-in preset (--preset) or
flags alone. Flags override the recipe fields they name.

Relaxed networks and rendered outputs are cached locally, so running the same
recipe again only re-renders what changed. Set PATTERNSYNTH_REDIS_URL to
share a redis cache instead.`,
		Example: `  patternsynth generate --pattern voronoi --shape lerp --value 10 -f svg,png
  patternsynth generate --preset scales -o scales
  patternsynth generate mud.toml --steps 1200 --bodies`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := flags.resolve(cmd, args)
			if err != nil {
				return err
			}
			opts.Recipe = rc
			return c.runGenerate(cmd.Context(), opts, output, noCache)
		},
	}

	addRecipeFlags(cmd, &flags)

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")

	// Render flags
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "pixels per world unit (default 30)")
	cmd.Flags().Float64Var(&opts.Stroke, "stroke", 0, "line width in pixels (default 1.5)")
	cmd.Flags().BoolVar(&opts.Bodies, "bodies", false, "draw the simulated bodies")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "detailed labels in DOT output")

	return cmd
}

// runGenerate executes the pipeline and writes every artifact.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	name := recipeName(opts.Recipe)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Simulating %s (%d steps)...", name, opts.Recipe.Steps))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return fmt.Errorf("generate: %w", err)
	}
	spinner.Stop()

	printSuccess("Generated %s", StyleHighlight.Render(name))
	printStats(result.Stats.LineCount, result.Stats.SegmentCount, result.CacheInfo.NetworkHit)
	if result.Network != nil {
		printDetail("residual: linear %.4f, angular %.4f", result.Stats.Residual.Linear, result.Stats.Residual.Angular)
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Recipe.Formats,
		name:      name,
		output:    output,
		cacheHit:  result.CacheInfo.RenderHit,
	})
}

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	name      string // default base name
	output    string // -o value
	cacheHit  bool
}

// writeArtifacts writes one file per format. A single format with an output
// path is written exactly there; otherwise the output (or name) is a base
// path that gets the format as extension.
func writeArtifacts(p artifactWriteParams) error {
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := artifactPath(p.output, p.name, format, len(p.formats))
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	if p.cacheHit {
		printDetail("outputs served from cache")
	}
	return nil
}

// artifactPath resolves the file for one format.
func artifactPath(output, name, format string, count int) string {
	if output == "" {
		return name + "." + format
	}
	if count == 1 && filepath.Ext(output) != "" {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
}
