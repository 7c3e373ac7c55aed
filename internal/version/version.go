// Package version provides version information for the lily-assistant binary.
package version

import (
	_ "embed"
	"strings"
)

// VERSION contains the version from the VERSION file.
// This is used as a fallback when ldflags are not set (e.g., go install).
//
//go:embed VERSION
var VERSION string

// Get returns the version with "v" prefix.
func Get() string {
	return "v" + strings.TrimSpace(VERSION)
}

// Number returns the bare MAJOR.MINOR.PATCH version.
func Number() string {
	return strings.TrimSpace(VERSION)
}
