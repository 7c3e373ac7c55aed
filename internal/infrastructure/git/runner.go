// Package git provides infrastructure adapters for git operations.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	apperrors "github.com/relicta-tech/lily-assistant/internal/errors"
)

// DefaultLocale is applied to LC_ALL and LANG when the environment lacks them,
// so git output is parseable regardless of the operator's locale.
const DefaultLocale = "en_US.utf-8"

// ExecError reports a git command that exited with a non-zero status.
type ExecError struct {
	Command  string
	ExitCode int
	Output   string
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	msg := fmt.Sprintf("Command: %s return exit code: %d", e.Command, e.ExitCode)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

// Runner executes the git binary in a fixed directory with a fixed environment.
type Runner struct {
	binary string
	dir    string
	env    []string
	logger *log.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithEnv replaces the environment snapshot passed to git.
func WithEnv(env []string) RunnerOption {
	return func(r *Runner) {
		r.env = append([]string(nil), env...)
	}
}

// WithLogger sets the logger used for command tracing.
func WithLogger(logger *log.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithBinary overrides the git executable.
func WithBinary(binary string) RunnerOption {
	return func(r *Runner) {
		r.binary = binary
	}
}

// NewRunner creates a runner for the working tree at dir. The environment is
// snapshotted from the process unless WithEnv is given.
func NewRunner(dir string, opts ...RunnerOption) *Runner {
	r := &Runner{
		binary: "git",
		dir:    dir,
		env:    os.Environ(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.env = withLocaleDefaults(r.env)
	return r
}

// Dir returns the working directory of the runner.
func (r *Runner) Dir() string {
	return r.dir
}

// Run executes git with args and returns its combined output with trailing
// newlines removed. Leading whitespace is kept since porcelain status columns
// depend on it. A non-zero exit yields an *ExecError.
func (r *Runner) Run(ctx context.Context, args ...string) (string, error) {
	command := formatCommand(r.binary, args)
	r.logger.Info("[EXECUTE] " + command)

	cmd := exec.CommandContext(ctx, r.binary, args...) // #nosec G204 -- arguments are built by this package
	cmd.Dir = r.dir
	cmd.Env = r.env

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	output := strings.TrimRight(out.String(), "\r\n")
	if err == nil {
		return output, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return output, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return output, &ExecError{
			Command:  command,
			ExitCode: exitErr.ExitCode(),
			Output:   apperrors.RedactSensitive(strings.TrimSpace(output)),
		}
	}
	return output, fmt.Errorf("failed to run %s: %w", command, err)
}

// withLocaleDefaults returns env with LC_ALL and LANG set to DefaultLocale
// where they are absent. The input slice is not modified.
func withLocaleDefaults(env []string) []string {
	out := append([]string(nil), env...)
	for _, key := range []string{"LC_ALL", "LANG"} {
		if !hasEnv(out, key) {
			out = append(out, key+"="+DefaultLocale)
		}
	}
	return out
}

func hasEnv(env []string, key string) bool {
	prefix := key + "="
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			return true
		}
	}
	return false
}

func formatCommand(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, binary)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n\"'") {
			a = fmt.Sprintf("%q", a)
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
