package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/relicta-tech/lily-assistant/internal/application/release"
	"github.com/relicta-tech/lily-assistant/internal/domain/version"
)

var upgradeVersionCmd = &cobra.Command{
	Use:   "upgrade-version [MAJOR|MINOR|PATCH]",
	Short: "Stage the next version in the project record",
	Long: `Compute the next version from the released one and stage it in
.lily/config.json together with the current commit hash.

All changes must be committed first. Nothing is committed or pushed; run
'lily-assistant push-upgraded-version' once the release artefacts are ready.
The upgrade kind defaults to PATCH.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"MAJOR", "MINOR", "PATCH"},
	RunE:      runUpgradeVersion,
}

var pushUpgradedVersionCmd = &cobra.Command{
	Use:   "push-upgraded-version",
	Short: "Promote the staged version, commit and push",
	Long: `Promote the staged version and commit hash to the released ones,
then stage everything, commit with "VERSION: <version>" and push to the
configured remote.

The record is promoted before git runs. If a git step fails, finish the
commit and push by hand; running the command again is refused.`,
	Args: cobra.NoArgs,
	RunE: runPushUpgradedVersion,
}

// openApp creates the application container for the resolved project root.
func openApp(ctx context.Context) (cliApp, error) {
	app, err := newContainerApp(ctx, cfg, projectRoot, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return app, nil
}

// parseUpgradeKind reads the optional positional upgrade kind.
func parseUpgradeKind(args []string) (version.UpgradeKind, error) {
	if len(args) == 0 {
		return version.DefaultUpgradeKind, nil
	}
	return version.ParseUpgradeKind(args[0])
}

func runUpgradeVersion(cmd *cobra.Command, args []string) error {
	kind, err := parseUpgradeKind(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer closeApp(app)

	output, err := app.UpgradeVersion().Execute(ctx, release.UpgradeVersionInput{Kind: kind})
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSONOutput(upgradeVersionJSON(output))
	}

	if output.Replaced != nil {
		printWarning(fmt.Sprintf("Replaced pending version %s", *output.Replaced))
	}
	printSuccess(fmt.Sprintf("Next config version upgraded to: %s", output.NextVersion))
	if cfg.Output.Verbose {
		printSubtle(fmt.Sprintf("  %s upgrade from %s at commit %s", output.Kind, output.CurrentVersion, output.NextCommitHash))
	}
	printInfo("Run 'lily-assistant push-upgraded-version' to publish it")
	return nil
}

func upgradeVersionJSON(output *release.UpgradeVersionOutput) map[string]any {
	result := map[string]any{
		"kind":             output.Kind.String(),
		"current_version":  output.CurrentVersion,
		"next_version":     output.NextVersion,
		"next_commit_hash": output.NextCommitHash,
	}
	if output.Replaced != nil {
		result["replaced"] = *output.Replaced
	}
	return result
}

func runPushUpgradedVersion(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer closeApp(app)

	output, err := app.PushUpgradedVersion().Execute(ctx)
	if err != nil {
		return err
	}

	if outputJSON {
		return printJSONOutput(map[string]any{
			"previous_version": output.PreviousVersion,
			"version":          output.Version,
			"commit_hash":      output.CommitHash,
			"commit_message":   output.CommitMessage,
		})
	}

	printSuccess(fmt.Sprintf("Version upgraded to: %s", output.Version))
	if cfg.Output.Verbose {
		printSubtle(fmt.Sprintf("  previous version %s, released from commit %s", output.PreviousVersion, output.CommitHash))
	}
	return nil
}
