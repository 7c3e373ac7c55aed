package conventions

import "errors"

// Errors reported by the convention checks.
var (
	// ErrBrokenStructure indicates the project layout does not match the rules.
	ErrBrokenStructure = errors.New("project structure is broken")

	// ErrNoProjectDir indicates no main project package directory was found.
	ErrNoProjectDir = errors.New("couldn't find main project directory")

	// ErrProtectedBranch indicates work attempted directly on the protected branch.
	ErrProtectedBranch = errors.New("protected branch")

	// ErrInvalidCommitMessage indicates a commit message outside the convention.
	ErrInvalidCommitMessage = errors.New("commit message does not follow the convention")

	// ErrNoVirtualEnv indicates no virtual environment is active.
	ErrNoVirtualEnv = errors.New("no virtual environment is active")
)
