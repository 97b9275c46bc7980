package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/patternsynth/pkg/pipeline"
	"github.com/matzehuels/patternsynth/pkg/recipe"
	"github.com/matzehuels/patternsynth/pkg/render"
	"github.com/matzehuels/patternsynth/pkg/render/sink"
)

// playCommand creates the interactive player.
func (c *CLI) playCommand() *cobra.Command {
	var (
		flags  recipeFlags
		pick   bool
		speed  int
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "play [recipe.toml]",
		Short: "Watch a pattern relax in the terminal",
		Long: `Watch a pattern relax in the terminal.

The pattern starts paused in its construction state. Keys:

  p          play / pause
  space      advance one step while paused (also enter or a mouse click)
  b          toggle body markers
  s          save the current state as PNG
  q          quit

Use --pick to choose a built-in preset from a list.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pick {
				rc, ok, err := pickPreset()
				if err != nil || !ok {
					return err
				}
				flags.preset = rc.Name
			}
			rc, err := flags.resolve(cmd, args)
			if err != nil {
				return err
			}
			return c.runPlay(cmd.Context(), rc, speed, outDir)
		},
	}

	addRecipeFlags(cmd, &flags)
	cmd.Flags().BoolVar(&pick, "pick", false, "choose a preset interactively")
	cmd.Flags().IntVar(&speed, "speed", 1, "simulation steps per frame")
	cmd.Flags().StringVar(&outDir, "out", ".", "directory for saved snapshots")

	return cmd
}

// pickPreset runs the preset list. ok is false when the user quit.
func pickPreset() (recipe.Recipe, bool, error) {
	final, err := tea.NewProgram(NewPresetListModel()).Run()
	if err != nil {
		return recipe.Recipe{}, false, err
	}
	m, ok := final.(PresetListModel)
	if !ok || m.Selected == nil {
		printDetail("No selection made")
		return recipe.Recipe{}, false, nil
	}
	return *m.Selected, true, nil
}

func (c *CLI) runPlay(ctx context.Context, rc recipe.Recipe, speed int, outDir string) error {
	n, err := pipeline.Build(rc, c.Logger)
	if err != nil {
		return err
	}
	name := recipeName(rc)

	model := NewPlayerModel(name, n, rc.DT, speed, pngSaver(outDir, name))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(PlayerModel); ok {
		printInfo("Stopped %s after %d steps", name, m.Steps)
	}
	return nil
}

// pngSaver writes snapshots to dir as <name>-<steps>.png.
func pngSaver(dir, name string) snapshotSaver {
	return func(s render.Snapshot, bodies bool) (string, error) {
		data, err := sink.RenderPNG(s, sink.WithBodies(bodies))
		if err != nil {
			return "", err
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
		path := filepath.Join(dir, fmt.Sprintf("%s-%d.png", name, s.Steps))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return "", err
		}
		return path, nil
	}
}
