// Package sourcecontrol provides domain types for source control operations.
package sourcecontrol

import "context"

// HeadReader provides read access to the checked-out revision.
// Use this interface when you only need to know where HEAD is.
type HeadReader interface {
	// CurrentCommitHash returns the full hash of HEAD.
	CurrentCommitHash(ctx context.Context) (string, error)
	// CurrentBranch returns the short name of the active branch.
	CurrentBranch(ctx context.Context) (string, error)
}

// StatusReader provides read access to the working tree status.
type StatusReader interface {
	// AllChangesCommitted reports whether every change outside the tool's
	// private directory is committed.
	AllChangesCommitted(ctx context.Context) (bool, error)
}

// Committer stages and records changes.
type Committer interface {
	// AddAll stages new, modified and deleted files.
	AddAll(ctx context.Context) error
	// Commit records staged changes without running hooks.
	Commit(ctx context.Context, message string) error
}

// Synchronizer exchanges commits with the remote.
type Synchronizer interface {
	// Push pushes the current branch to the configured remote.
	Push(ctx context.Context) error
	// Pull pulls the current branch from the configured remote.
	Pull(ctx context.Context) error
	// Stash stashes local modifications.
	Stash(ctx context.Context) error
}

// Gateway is the full set of repository operations the release workflow uses.
type Gateway interface {
	HeadReader
	StatusReader
	Committer
	Synchronizer
}
