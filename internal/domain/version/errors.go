// Package version provides domain types for semantic versioning.
package version

import "errors"

// Domain errors for version operations.
var (
	// ErrInvalidVersion indicates a string that is not MAJOR.MINOR.PATCH.
	ErrInvalidVersion = errors.New("invalid semantic version")

	// ErrInvalidUpgradeKind indicates an unknown upgrade kind.
	ErrInvalidUpgradeKind = errors.New("invalid upgrade kind")
)
