// Package version provides domain types for semantic versioning.
package version

import (
	"fmt"
	"strings"
)

// UpgradeKind selects the magnitude of a version upgrade.
type UpgradeKind string

const (
	// UpgradeMajor resets minor and patch and increments major.
	UpgradeMajor UpgradeKind = "MAJOR"
	// UpgradeMinor resets patch and increments minor.
	UpgradeMinor UpgradeKind = "MINOR"
	// UpgradePatch increments patch.
	UpgradePatch UpgradeKind = "PATCH"
)

// DefaultUpgradeKind is used when no kind is given.
const DefaultUpgradeKind = UpgradePatch

// UpgradeKinds lists every kind in canonical order.
func UpgradeKinds() []UpgradeKind {
	return []UpgradeKind{UpgradeMajor, UpgradeMinor, UpgradePatch}
}

// IsValid returns true if the kind is one of MAJOR, MINOR or PATCH.
func (k UpgradeKind) IsValid() bool {
	switch k {
	case UpgradeMajor, UpgradeMinor, UpgradePatch:
		return true
	default:
		return false
	}
}

// String returns the canonical upper-case name.
func (k UpgradeKind) String() string {
	return string(k)
}

// ParseUpgradeKind parses MAJOR, MINOR or PATCH (any letter case).
// An empty string yields DefaultUpgradeKind.
func ParseUpgradeKind(s string) (UpgradeKind, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultUpgradeKind, nil
	}
	kind := UpgradeKind(strings.ToUpper(s))
	if !kind.IsValid() {
		return "", fmt.Errorf("%w: %q (must be MAJOR, MINOR or PATCH)", ErrInvalidUpgradeKind, s)
	}
	return kind, nil
}

// RenderNextVersion computes the version that follows current for kind.
func RenderNextVersion(current string, kind UpgradeKind) (string, error) {
	v, err := Parse(current)
	if err != nil {
		return "", err
	}
	return v.Next(kind).String(), nil
}
