package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/patternsynth/pkg/pipeline"
	"github.com/matzehuels/patternsynth/pkg/render"
	"github.com/matzehuels/patternsynth/pkg/render/topology"
)

// topologyCommand creates the command that renders a pattern's joint graph.
func (c *CLI) topologyCommand() *cobra.Command {
	var (
		flags    recipeFlags
		output   string
		svg      bool
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "topology [recipe.toml]",
		Short: "Render the joint graph of a pattern as DOT or SVG",
		Long: `Render the joint graph of a pattern as DOT or SVG.

Every line becomes a node and every pin between two line ends an edge. The
network is built but not simulated, since simulation never changes which
ends are joined.

DOT is written to stdout unless --output is given. --svg lays the graph out
with Graphviz.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := flags.resolve(cmd, args)
			if err != nil {
				return err
			}
			prog := newProgress(c.Logger)
			n, err := pipeline.Build(rc, c.Logger)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Built %d lines with %d joints", len(n.Lines()), n.JointCount()))
			dot := topology.ToDOT(render.Capture(n, 0), topology.Options{Detailed: detailed})
			return c.writeTopology(cmd.Context(), dot, output, svg)
		},
	}

	addRecipeFlags(cmd, &flags)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&svg, "svg", false, "render SVG instead of DOT")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with IDs and edges with angles")

	return cmd
}

func (c *CLI) writeTopology(ctx context.Context, dot, output string, svg bool) error {
	data := []byte(dot)
	if svg {
		spinner := newSpinnerWithContext(ctx, "Laying out joint graph...")
		spinner.Start()
		var err error
		data, err = topology.RenderSVG(ctx, dot)
		spinner.Stop()
		if err != nil {
			return fmt.Errorf("render topology: %w", err)
		}
	}

	if output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Wrote joint graph")
	printFile(output)
	return nil
}
