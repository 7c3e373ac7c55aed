package git

import (
	"context"
	"errors"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/relicta-tech/lily-assistant/internal/domain/sourcecontrol"
	apperrors "github.com/relicta-tech/lily-assistant/internal/errors"
)

// DefaultRemote is the remote pushed to and pulled from.
const DefaultRemote = "origin"

// Repository implements sourcecontrol.Gateway. HEAD and branch are read with
// go-git; status, staging, commit and remote operations run the git binary.
type Repository struct {
	runner        *Runner
	remote        string
	ignoreSegment string
}

// Ensure Repository implements the gateway.
var _ sourcecontrol.Gateway = (*Repository)(nil)

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithRemote sets the remote used by Push and Pull.
func WithRemote(remote string) RepositoryOption {
	return func(r *Repository) {
		if remote != "" {
			r.remote = remote
		}
	}
}

// WithIgnoredSegment sets the path segment excluded from the
// uncommitted-changes check, e.g. ".lily/".
func WithIgnoredSegment(segment string) RepositoryOption {
	return func(r *Repository) {
		r.ignoreSegment = segment
	}
}

// NewRepository creates a gateway for the working tree the runner operates in.
func NewRepository(runner *Runner, opts ...RepositoryOption) *Repository {
	r := &Repository{
		runner: runner,
		remote: DefaultRemote,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Remote returns the configured remote name.
func (r *Repository) Remote() string {
	return r.remote
}

// open is called per operation since HEAD moves between calls.
func (r *Repository) open(op string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(r.runner.Dir(), &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, apperrors.GitWrap(sourcecontrol.ErrNotARepository, op, r.runner.Dir())
		}
		return nil, apperrors.GitWrap(err, op, "failed to open repository")
	}
	return repo, nil
}

func (r *Repository) head(op string) (*plumbing.Reference, error) {
	repo, err := r.open(op)
	if err != nil {
		return nil, err
	}
	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, apperrors.GitWrap(sourcecontrol.ErrNoCommits, op, "failed to get HEAD")
		}
		return nil, apperrors.GitWrap(err, op, "failed to get HEAD")
	}
	return head, nil
}

// CurrentCommitHash returns the full hash of HEAD.
func (r *Repository) CurrentCommitHash(_ context.Context) (string, error) {
	head, err := r.head("git.CurrentCommitHash")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(head.Hash().String()), nil
}

// CurrentBranch returns the short name of the active branch.
func (r *Repository) CurrentBranch(_ context.Context) (string, error) {
	const op = "git.CurrentBranch"

	head, err := r.head(op)
	if err != nil {
		return "", err
	}
	if !head.Name().IsBranch() {
		return "", apperrors.GitWrap(sourcecontrol.ErrDetachedHead, op, "cannot determine branch")
	}
	return strings.TrimSpace(head.Name().Short()), nil
}

// AllChangesCommitted reports whether every path in the porcelain status
// lies under the ignored segment.
func (r *Repository) AllChangesCommitted(ctx context.Context) (bool, error) {
	out, err := r.run(ctx, "git.AllChangesCommitted", "status", "--porcelain")
	if err != nil {
		return false, err
	}
	status := sourcecontrol.ParsePorcelain(out)
	if r.ignoreSegment == "" {
		return len(status) == 0, nil
	}
	return status.CommittedExcept(r.ignoreSegment), nil
}

// AddAll stages new and modified files, then deletions.
func (r *Repository) AddAll(ctx context.Context) error {
	const op = "git.AddAll"
	if _, err := r.run(ctx, op, "add", "."); err != nil {
		return err
	}
	_, err := r.run(ctx, op, "add", "-u", ".")
	return err
}

// Commit records staged changes with message, skipping hooks.
func (r *Repository) Commit(ctx context.Context, message string) error {
	_, err := r.run(ctx, "git.Commit", "commit", "--no-verify", "-m", message)
	return err
}

// Push pushes the current branch to the remote. A detached HEAD is pushed
// as HEAD.
func (r *Repository) Push(ctx context.Context) error {
	const op = "git.Push"
	ref, err := r.refspec(ctx)
	if err != nil {
		return err
	}
	_, err = r.run(ctx, op, "push", r.remote, ref)
	return err
}

// Pull pulls the current branch from the remote.
func (r *Repository) Pull(ctx context.Context) error {
	const op = "git.Pull"
	ref, err := r.refspec(ctx)
	if err != nil {
		return err
	}
	_, err = r.run(ctx, op, "pull", r.remote, ref)
	return err
}

// refspec returns the branch name, or HEAD when detached.
func (r *Repository) refspec(ctx context.Context) (string, error) {
	branch, err := r.CurrentBranch(ctx)
	if errors.Is(err, sourcecontrol.ErrDetachedHead) {
		return sourcecontrol.DetachedHeadName, nil
	}
	return branch, err
}

// Stash stashes local modifications.
func (r *Repository) Stash(ctx context.Context) error {
	_, err := r.run(ctx, "git.Stash", "stash")
	return err
}

func (r *Repository) run(ctx context.Context, op string, args ...string) (string, error) {
	out, err := r.runner.Run(ctx, args...)
	if err != nil {
		if ctx.Err() != nil {
			return out, err
		}
		return out, apperrors.GitWrap(err, op, "git "+args[0]+" failed")
	}
	return out, nil
}
