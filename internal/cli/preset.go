package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/patternsynth/pkg/recipe"
)

// presetCommand creates the preset management command.
func (c *CLI) presetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "List, show and save the built-in recipes",
	}

	cmd.AddCommand(c.presetListCommand())
	cmd.AddCommand(c.presetShowCommand())
	cmd.AddCommand(c.presetSaveCommand())

	return cmd
}

// presetListCommand creates the "preset list" subcommand.
func (c *CLI) presetListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range recipe.PresetNames() {
				rc, err := recipe.Preset(name)
				if err != nil {
					return err
				}
				printKeyValue(name, fmt.Sprintf("%s · %s %g", rc.Pattern, rc.Shape, rc.Value))
			}
			printNewline()
			printNextStep("Generate one", appName+" generate --preset <name>")
			return nil
		},
	}
}

// presetShowCommand creates the "preset show" subcommand.
func (c *CLI) presetShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a built-in recipe as TOML",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return recipe.PresetNames(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := recipe.Preset(args[0])
			if err != nil {
				return err
			}
			return rc.Encode(os.Stdout)
		},
	}
}

// presetSaveCommand creates the "preset save" subcommand.
func (c *CLI) presetSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <name> [file]",
		Short: "Save a built-in recipe as a TOML file to edit",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := recipe.Preset(args[0])
			if err != nil {
				return err
			}
			path := args[0] + ".toml"
			if len(args) == 2 {
				path = args[1]
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create %s: %w", path, err)
			}
			if err := rc.Encode(f); err != nil {
				f.Close()
				return fmt.Errorf("encode recipe: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			printSuccess("Saved preset %s", StyleHighlight.Render(args[0]))
			printFile(path)
			printNextStep("Generate it", appName+" generate "+path)
			return nil
		},
	}
}
