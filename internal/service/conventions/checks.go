package conventions

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/relicta-tech/lily-assistant/internal/fileutil"
)

// DefaultProtectedBranch is the branch direct work is refused on.
const DefaultProtectedBranch = "master"

// DefaultVirtualEnvVar is set by Python virtual environments when active.
const DefaultVirtualEnvVar = "VIRTUAL_ENV"

// MaxCommitMessageSize is the maximum size of a commit message file.
const MaxCommitMessageSize = 1 << 20

// BranchGuard tells whether a branch is the protected one.
type BranchGuard struct {
	protected string
}

// NewBranchGuard creates a guard for protected, DefaultProtectedBranch if empty.
func NewBranchGuard(protected string) *BranchGuard {
	if strings.TrimSpace(protected) == "" {
		protected = DefaultProtectedBranch
	}
	return &BranchGuard{protected: strings.TrimSpace(protected)}
}

// Protected returns the protected branch name.
func (g *BranchGuard) Protected() string {
	return g.protected
}

// IsProtected compares branch with the protected branch under Unicode case folding.
func (g *BranchGuard) IsProtected(branch string) bool {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(branch)) == fold.String(g.protected)
}

// CommitMessageValidator validates commit messages. Every message is
// currently accepted.
type CommitMessageValidator struct{}

// NewCommitMessageValidator creates a CommitMessageValidator.
func NewCommitMessageValidator() *CommitMessageValidator {
	return &CommitMessageValidator{}
}

// Validate reports whether message follows the commit convention.
func (v *CommitMessageValidator) Validate(_ string) bool {
	return true
}

// ReadCommitMessage reads the message file git passes to the commit-msg hook.
func ReadCommitMessage(path string) (string, error) {
	data, err := fileutil.ReadFileLimited(path, MaxCommitMessageSize)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// VirtualEnvDetector checks an environment snapshot for an active virtualenv.
type VirtualEnvDetector struct {
	envVar string
	env    map[string]string
}

// NewVirtualEnvDetector creates a detector over env ("KEY=value" pairs).
func NewVirtualEnvDetector(envVar string, env []string) *VirtualEnvDetector {
	if envVar == "" {
		envVar = DefaultVirtualEnvVar
	}
	m := make(map[string]string, len(env))
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return &VirtualEnvDetector{envVar: envVar, env: m}
}

// Var returns the inspected variable name.
func (d *VirtualEnvDetector) Var() string {
	return d.envVar
}

// IsActive reports whether the variable is set to a non-blank value.
func (d *VirtualEnvDetector) IsActive() bool {
	return strings.TrimSpace(d.env[d.envVar]) != ""
}
