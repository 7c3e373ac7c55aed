package git

import (
	"context"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relicta-tech/lily-assistant/internal/domain/sourcecontrol"
	apperrors "github.com/relicta-tech/lily-assistant/internal/errors"
)

func TestRepository_CurrentCommitHashAndBranch(t *testing.T) {
	h := newTestRepo(t)
	hash := h.makeCommit("README.md", "initial")
	repo := NewRepository(h.runner(nil))
	ctx := context.Background()

	got, err := repo.CurrentCommitHash(ctx)
	require.NoError(t, err)
	assert.Equal(t, hash, got)

	branch, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "master", branch)
}

func TestRepository_DetectsRootFromSubdirectory(t *testing.T) {
	h := newTestRepo(t)
	hash := h.makeCommit("pkg/module.py", "initial")

	repo := NewRepository(NewRunner(h.repoDir + "/pkg"))
	got, err := repo.CurrentCommitHash(context.Background())

	require.NoError(t, err)
	assert.Equal(t, hash, got)
}

func TestRepository_NotARepository(t *testing.T) {
	repo := NewRepository(NewRunner(t.TempDir()))

	_, err := repo.CurrentCommitHash(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, sourcecontrol.ErrNotARepository)
	assert.True(t, apperrors.IsKind(err, apperrors.KindGit))
}

func TestRepository_NoCommits(t *testing.T) {
	h := newTestRepo(t)

	_, err := NewRepository(h.runner(nil)).CurrentCommitHash(context.Background())

	assert.ErrorIs(t, err, sourcecontrol.ErrNoCommits)
}

func TestRepository_DetachedHead(t *testing.T) {
	h := newTestRepo(t)
	hash := h.makeCommit("README.md", "initial")
	require.NoError(t, h.repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, plumbing.NewHash(hash))))

	repo := NewRepository(h.runner(nil))
	ctx := context.Background()

	_, err := repo.CurrentBranch(ctx)
	assert.ErrorIs(t, err, sourcecontrol.ErrDetachedHead)

	ref, err := repo.refspec(ctx)
	require.NoError(t, err)
	assert.Equal(t, sourcecontrol.DetachedHeadName, ref, "push and pull target HEAD when detached")
}

func TestRepository_RefspecOnBranch(t *testing.T) {
	h := newTestRepo(t)
	h.makeCommit("README.md", "initial")

	ref, err := NewRepository(h.runner(nil)).refspec(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "master", ref)
}

func TestRepository_RefspecWithoutCommits(t *testing.T) {
	h := newTestRepo(t)

	_, err := NewRepository(h.runner(nil)).refspec(context.Background())

	assert.ErrorIs(t, err, sourcecontrol.ErrNoCommits)
}

func TestRepository_AllChangesCommitted(t *testing.T) {
	requireGitBinary(t)
	h := newTestRepo(t)
	h.makeCommit("README.md", "initial")
	repo := NewRepository(h.runner(nil), WithIgnoredSegment(".lily/"))
	ctx := context.Background()

	ok, err := repo.AllChangesCommitted(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "fresh commit is clean")

	h.writeFile(".lily/config.json", "{}")
	ok, err = repo.AllChangesCommitted(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "private directory is ignored")

	h.writeFile("README.md", "changed")
	ok, err = repo.AllChangesCommitted(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepository_AllChangesCommitted_TrackedPrivateFile(t *testing.T) {
	requireGitBinary(t)
	h := newTestRepo(t)
	h.makeCommit("README.md", "initial")
	h.makeCommit(".lily/config.json", `{"version": "1.2.3"}`)
	repo := NewRepository(h.runner(nil), WithIgnoredSegment(".lily/"))
	ctx := context.Background()

	h.writeFile(".lily/config.json", `{"version": "1.2.3", "next_version": "1.2.4"}`)

	out, err := h.runner(nil).Run(ctx, "status", "--porcelain")
	require.NoError(t, err)
	assert.Equal(t, " M .lily/config.json", out)

	ok, err := repo.AllChangesCommitted(ctx)
	require.NoError(t, err)
	assert.True(t, ok, "a modified tracked record is not an uncommitted change")

	h.writeFile("lily/app.py", "print()")
	ok, err = repo.AllChangesCommitted(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepository_AddAllCommitPush(t *testing.T) {
	requireGitBinary(t)
	h := newTestRepo(t)
	h.makeCommit("README.md", "initial")

	remoteDir := t.TempDir()
	remote, err := git.PlainInit(remoteDir, true)
	require.NoError(t, err)
	_, err = h.repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{remoteDir}})
	require.NoError(t, err)

	repo := NewRepository(h.runner(nil), WithRemote("origin"))
	ctx := context.Background()

	h.writeFile(".lily/config.json", `{"version": "1.2.13"}`)
	require.NoError(t, repo.AddAll(ctx))
	require.NoError(t, repo.Commit(ctx, "VERSION: 1.2.13"))
	require.NoError(t, repo.Push(ctx))

	head, err := repo.CurrentCommitHash(ctx)
	require.NoError(t, err)

	ref, err := remote.Reference(plumbing.NewBranchReferenceName("master"), true)
	require.NoError(t, err)
	assert.Equal(t, head, ref.Hash().String())

	commit, err := remote.CommitObject(ref.Hash())
	require.NoError(t, err)
	assert.Equal(t, "VERSION: 1.2.13\n", commit.Message)
}

func TestRepository_PushFailureIsGitError(t *testing.T) {
	requireGitBinary(t)
	h := newTestRepo(t)
	h.makeCommit("README.md", "initial")

	err := NewRepository(h.runner(nil), WithRemote("nowhere")).Push(context.Background())

	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindGit))
	var execErr *ExecError
	assert.ErrorAs(t, err, &execErr)
}

func TestRepository_Stash(t *testing.T) {
	requireGitBinary(t)
	h := newTestRepo(t)
	h.makeCommit("README.md", "initial")
	h.writeFile("README.md", "dirty")
	repo := NewRepository(h.runner(nil))
	ctx := context.Background()

	require.NoError(t, repo.Stash(ctx))

	ok, err := repo.AllChangesCommitted(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewRepository_Defaults(t *testing.T) {
	repo := NewRepository(NewRunner(t.TempDir()), WithRemote(""))
	assert.Equal(t, DefaultRemote, repo.Remote())
}
