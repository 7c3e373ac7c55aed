package sourcecontrol

import "errors"

// DetachedHeadName is the ref name git reports for a detached HEAD.
const DetachedHeadName = "HEAD"

// Domain errors for source control operations.
var (
	// ErrNotARepository indicates the path is not a git repository.
	ErrNotARepository = errors.New("not a git repository")

	// ErrDetachedHead indicates HEAD does not point at a branch.
	ErrDetachedHead = errors.New("HEAD is detached, not on a branch")

	// ErrNoCommits indicates the repository has no commits yet.
	ErrNoCommits = errors.New("repository has no commits")
)
