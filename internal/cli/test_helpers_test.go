package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/relicta-tech/lily-assistant/internal/config"
	"github.com/relicta-tech/lily-assistant/internal/container"
	"github.com/relicta-tech/lily-assistant/internal/domain/project"
	"github.com/relicta-tech/lily-assistant/internal/domain/sourcecontrol"
	"github.com/relicta-tech/lily-assistant/internal/infrastructure/persistence"
)

// stubGitRepo is an in-memory repository on a fixed branch and commit.
type stubGitRepo struct {
	branch    string
	branchErr error
	hash      string
	dirty     bool
	pushErr   error
	committed []string
	pushed    int
}

func (g *stubGitRepo) CurrentCommitHash(context.Context) (string, error) { return g.hash, nil }
func (g *stubGitRepo) CurrentBranch(context.Context) (string, error)     { return g.branch, g.branchErr }
func (g *stubGitRepo) AllChangesCommitted(context.Context) (bool, error) { return !g.dirty, nil }
func (g *stubGitRepo) AddAll(context.Context) error                      { return nil }
func (g *stubGitRepo) Pull(context.Context) error                        { return nil }
func (g *stubGitRepo) Stash(context.Context) error                       { return nil }

func (g *stubGitRepo) Commit(_ context.Context, message string) error {
	g.committed = append(g.committed, message)
	return nil
}

func (g *stubGitRepo) Push(context.Context) error {
	if g.pushErr != nil {
		return g.pushErr
	}
	g.pushed++
	return nil
}

// testEnv configures the package globals and swaps in a container built
// over root, gateway and env. Everything is restored on cleanup.
func testEnv(t *testing.T, root string, gateway sourcecontrol.Gateway, env []string) {
	t.Helper()

	origNew := newContainerApp
	origCfg := cfg
	origRoot := projectRoot
	origJSON := outputJSON
	origLogger := logger
	t.Cleanup(func() {
		newContainerApp = origNew
		cfg = origCfg
		projectRoot = origRoot
		outputJSON = origJSON
		logger = origLogger
	})

	cfg = config.DefaultConfig()
	projectRoot = root
	outputJSON = false
	logger = log.NewWithOptions(io.Discard, log.Options{})

	newContainerApp = func(ctx context.Context, c *config.Config, r string, l *log.Logger) (cliApp, error) {
		opts := []container.Option{
			container.WithRoot(r),
			container.WithLogger(l),
			container.WithEnv(env),
		}
		if gateway != nil {
			opts = append(opts, container.WithGateway(gateway))
		}
		app, err := container.NewInitialized(ctx, c, opts...)
		if err != nil {
			return nil, err
		}
		return &containerAppWrapper{App: app}, nil
	}
}

// newTestCommand returns a command carrying a background context.
func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

// captureStdout captures everything fn prints to stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	_ = w.Close()
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	_ = r.Close()
	os.Stdout = old
	return buf.String()
}

// writeRecord stores a released project record under root.
func writeRecord(t *testing.T, root, version string) *persistence.ProjectConfig {
	t.Helper()
	stored, err := persistence.NewProjectStore(root).CreateEmpty(context.Background(), "src")
	require.NoError(t, err)
	require.NoError(t, stored.SetVersion(version))
	require.NoError(t, stored.SetLastCommitHash("0000000"))
	return stored
}

func loadRecord(t *testing.T, root string) project.Record {
	t.Helper()
	stored, err := persistence.NewProjectStore(root).Load(context.Background())
	require.NoError(t, err)
	return stored.Record()
}

func writeFile(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
