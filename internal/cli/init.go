package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relicta-tech/lily-assistant/internal/infrastructure/scaffold"
)

var initCmd = &cobra.Command{
	Use:   "init <src_dir>",
	Short: "Install git hooks and the makefile snippet",
	Long: `Initialize lily-assistant in the current project.

This command must be run at the root of the repository. It:
  • creates .lily/config.json with placeholders unless it already exists
  • replaces .git/hooks with the lily-assistant hooks
  • renders .lily/lily_assistant.makefile for <src_dir>`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	srcDir := strings.TrimSpace(args[0])
	if srcDir == "" {
		return fmt.Errorf("src_dir must not be empty")
	}

	ctx := cmd.Context()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer closeApp(app)

	if err := app.Bootstrapper().CheckRoot(); err != nil {
		return err
	}

	stored, err := app.ProjectStore().CreateEmpty(ctx, srcDir)
	if err != nil {
		return err
	}
	if stored.SrcDir() != srcDir {
		printWarning(fmt.Sprintf("Project record keeps src_dir %q", stored.SrcDir()))
	}

	result, err := app.Bootstrapper().Init(ctx, srcDir, stored.Version())
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSONOutput(map[string]any{
			"config":   app.ProjectStore().Path(),
			"hooks":    result.Hooks,
			"makefile": result.MakefilePath,
		})
	}

	printSuccess(fmt.Sprintf("Copied git hooks to %s", result.HooksDir))
	printSuccess(fmt.Sprintf("Copied lily_assistant makefile to %s", result.MakefilePath))
	fmt.Println()
	printTitle("Please insert the following line at the top of your Makefile:")
	fmt.Println()
	fmt.Println("    " + scaffold.IncludeLine)
	return nil
}
