package release

import "errors"

// Application errors for the release workflow.
var (
	// ErrUncommittedChanges indicates the working tree has changes outside the
	// tool's private directory.
	ErrUncommittedChanges = errors.New("Not all changes were committed! One cannot upgrade version with some changes still being not committed")

	// ErrIncompletePending indicates a staged version without its commit hash.
	ErrIncompletePending = errors.New("pending upgrade has a next version but no next commit hash")
)

// CommitMessage returns the message of the commit that publishes v.
func CommitMessage(v string) string {
	return "VERSION: " + v
}
