package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/patternsynth/pkg/partition"
	"github.com/matzehuels/patternsynth/pkg/recipe"
	"github.com/matzehuels/patternsynth/pkg/shape"
)

// shapeValues describes what each shape function reads from its value.
var shapeValues = map[shape.Kind]string{
	shape.Constant:            "bend in degrees",
	shape.Average:             "multiplier of the mean joint angle",
	shape.BasicLerp:           "multiplier of the end-angle blend",
	shape.Randomized:          "multiplier of a random bend",
	shape.Sine:                "amplitude in radians",
	shape.Pseudorandom:        "unused",
	shape.SequentialSine:      "multiplier of the wave",
	shape.SequentialSineBlend: "multiplier of the blended wave",
}

// shapesCommand lists the shape functions, patterns and point policies.
func (c *CLI) shapesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shapes",
		Short: "List shape functions, patterns and point distributions",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(StyleTitle.Render("Shape functions"))
			fmt.Println(shapeTable())
			printNewline()
			printKeyValue("Patterns", joinStyled(recipe.Patterns))
			printKeyValue("Points", joinStyled(partition.Policies()))
			printKeyValue("Matchers", joinStyled([]string{recipe.MatcherBruteForce, recipe.MatcherGrid}))
			return nil
		},
	}
}

func shapeTable() string {
	rows := [][]string{}
	for _, k := range shape.Kinds() {
		rows = append(rows, []string{k.String(), shapeValues[k]})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Shape", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleHighlight
			}
			return StyleDim
		}).
		Render()
}

func joinStyled(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += StyleDim.Render(", ")
		}
		out += StyleValue.Render(n)
	}
	return out
}
