package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relicta-tech/lily-assistant/internal/domain/sourcecontrol"
	"github.com/relicta-tech/lily-assistant/internal/service/conventions"
)

var hasCorrectStructureCmd = &cobra.Command{
	Use:   "has-correct-structure",
	Short: "Check that the project has the required files and directories",
	Long: `Check the project root against the required layout and report every
missing file or directory at once.

The rules come from .lily/structure.yaml when present, otherwise the
built-in Python project layout is used.`,
	Args: cobra.NoArgs,
	RunE: runHasCorrectStructure,
}

var isNotMasterCmd = &cobra.Command{
	Use:   "is-not-master",
	Short: "Fail when the current branch is the protected branch",
	Args:  cobra.NoArgs,
	RunE:  runIsNotMaster,
}

var isCommitMessageValidCmd = &cobra.Command{
	Use:   "is-commit-message-valid <path>",
	Short: "Check the commit message file passed by the commit-msg hook",
	Args:  cobra.ExactArgs(1),
	RunE:  runIsCommitMessageValid,
}

var isVirtualenvCmd = &cobra.Command{
	Use:   "is-virtualenv",
	Short: "Fail when no Python virtual environment is active",
	Args:  cobra.NoArgs,
	RunE:  runIsVirtualenv,
}

func runHasCorrectStructure(cmd *cobra.Command, _ []string) error {
	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp(app)

	report, err := app.StructureValidator().Validate(app.Root())
	if err != nil {
		return err
	}

	if outputJSON {
		if err := printJSONOutput(structureJSON(report)); err != nil {
			return err
		}
		return report.Err()
	}

	if !report.OK() {
		fmt.Print(report.String())
		return report.Err()
	}

	printSuccess("Project structure is correct")
	return nil
}

func structureJSON(report *conventions.Report) map[string]any {
	violations := make([]map[string]string, 0, len(report.Violations))
	for _, v := range report.Violations {
		violations = append(violations, map[string]string{
			"kind":    string(v.Kind),
			"name":    v.Name,
			"purpose": v.Purpose,
		})
	}
	return map[string]any{
		"ok":          report.OK(),
		"project_dir": report.ProjectDir,
		"violations":  violations,
	}
}

func runIsNotMaster(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer closeApp(app)

	branch, err := app.Gateway().CurrentBranch(ctx)
	if errors.Is(err, sourcecontrol.ErrDetachedHead) {
		branch, err = sourcecontrol.DetachedHeadName, nil
	}
	if err != nil {
		return err
	}

	guard := app.BranchGuard()
	protected := guard.IsProtected(branch)

	if outputJSON {
		if err := printJSONOutput(map[string]any{
			"ok":               !protected,
			"branch":           branch,
			"protected_branch": guard.Protected(),
		}); err != nil {
			return err
		}
	} else if protected {
		printError(fmt.Sprintf("you shouldn't perform this action on the %s branch", guard.Protected()))
	} else {
		printSubtle(fmt.Sprintf("On branch %s", branch))
	}

	if protected {
		return fmt.Errorf("%w: %s", conventions.ErrProtectedBranch, branch)
	}
	return nil
}

func runIsCommitMessageValid(cmd *cobra.Command, args []string) error {
	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp(app)

	message, err := conventions.ReadCommitMessage(args[0])
	if err != nil {
		return fmt.Errorf("failed to read commit message: %w", err)
	}

	valid := app.CommitMessageValidator().Validate(message)

	if outputJSON {
		if err := printJSONOutput(map[string]any{
			"ok":      valid,
			"message": message,
		}); err != nil {
			return err
		}
	} else if valid {
		printInfo(fmt.Sprintf("COMMIT MESSAGE: %s", strings.TrimRight(message, "\n")))
	} else {
		printError("your commit message is not following the commit message convention.")
	}

	if !valid {
		return conventions.ErrInvalidCommitMessage
	}
	return nil
}

func runIsVirtualenv(cmd *cobra.Command, _ []string) error {
	app, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp(app)

	detector := app.VirtualEnvDetector()
	active := detector.IsActive()

	if outputJSON {
		if err := printJSONOutput(map[string]any{
			"ok":  active,
			"var": detector.Var(),
		}); err != nil {
			return err
		}
	} else if !active {
		printError("You must run your tests & code against VIRTUAL ENVIRONMENT")
	}

	if !active {
		return fmt.Errorf("%w: %s is not set", conventions.ErrNoVirtualEnv, detector.Var())
	}
	return nil
}
