package git

import (
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// testRepoHelper provides helper functions for creating test git repositories.
type testRepoHelper struct {
	t       *testing.T
	repoDir string
	repo    *git.Repository
}

// newTestRepo creates a new test repository in a temporary directory.
func newTestRepo(t *testing.T) *testRepoHelper {
	t.Helper()

	repoDir := t.TempDir()
	repo, err := git.PlainInit(repoDir, false)
	if err != nil {
		t.Fatalf("failed to init test repo: %v", err)
	}

	return &testRepoHelper{t: t, repoDir: repoDir, repo: repo}
}

// writeFile writes content to a path relative to the repository root.
func (h *testRepoHelper) writeFile(name, content string) {
	h.t.Helper()

	path := filepath.Join(h.repoDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		h.t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		h.t.Fatalf("failed to write test file: %v", err)
	}
}

// makeCommit writes name and commits it with go-git.
func (h *testRepoHelper) makeCommit(name, message string) string {
	h.t.Helper()

	h.writeFile(name, message)

	worktree, err := h.repo.Worktree()
	if err != nil {
		h.t.Fatalf("failed to get worktree: %v", err)
	}
	if _, err := worktree.Add(name); err != nil {
		h.t.Fatalf("failed to stage file: %v", err)
	}

	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		h.t.Fatalf("failed to commit: %v", err)
	}

	return hash.String()
}

// runner returns a Runner for the test repository with a fixed identity.
func (h *testRepoHelper) runner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return NewRunner(h.repoDir,
		WithLogger(logger),
		WithEnv(testEnv(h.t)),
	)
}

func testEnv(t *testing.T) []string {
	t.Helper()
	home := t.TempDir()
	return []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + home,
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_AUTHOR_NAME=Test Author",
		"GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test Author",
		"GIT_COMMITTER_EMAIL=test@example.com",
	}
}

func requireGitBinary(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}
