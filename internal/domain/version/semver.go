// Package version provides domain types for semantic versioning.
package version

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// SemanticVersion is a value object representing a MAJOR.MINOR.PATCH version.
// Components are arbitrary-precision so long-lived projects never overflow.
// Immutable: all operations return new instances.
type SemanticVersion struct {
	major *big.Int
	minor *big.Int
	patch *big.Int
}

// semverRegex accepts exactly three dot-separated runs of decimal digits.
var semverRegex = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

// Zero is the zero version (0.0.0).
var Zero = NewSemanticVersion(0, 0, 0)

// NewSemanticVersion creates a new SemanticVersion value object.
func NewSemanticVersion(major, minor, patch uint64) SemanticVersion {
	return SemanticVersion{
		major: new(big.Int).SetUint64(major),
		minor: new(big.Int).SetUint64(minor),
		patch: new(big.Int).SetUint64(patch),
	}
}

// Parse parses a MAJOR.MINOR.PATCH string. Surrounding whitespace is ignored;
// prefixes, pre-release and build metadata are rejected.
func Parse(s string) (SemanticVersion, error) {
	matches := semverRegex.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
	}

	parts := make([]*big.Int, 3)
	for i := range parts {
		n, ok := new(big.Int).SetString(matches[i+1], 10)
		if !ok {
			return Zero, fmt.Errorf("%w: %q", ErrInvalidVersion, s)
		}
		parts[i] = n
	}

	return SemanticVersion{major: parts[0], minor: parts[1], patch: parts[2]}, nil
}

// MustParse parses a version string and panics if invalid.
// Use only for known-good version strings.
func MustParse(s string) SemanticVersion {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Major returns a copy of the major component.
func (v SemanticVersion) Major() *big.Int { return copyOf(v.major) }

// Minor returns a copy of the minor component.
func (v SemanticVersion) Minor() *big.Int { return copyOf(v.minor) }

// Patch returns a copy of the patch component.
func (v SemanticVersion) Patch() *big.Int { return copyOf(v.patch) }

// String returns the canonical MAJOR.MINOR.PATCH form.
func (v SemanticVersion) String() string {
	return fmt.Sprintf("%s.%s.%s", orZero(v.major), orZero(v.minor), orZero(v.patch))
}

// Compare compares two versions lexicographically on (major, minor, patch).
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
func (v SemanticVersion) Compare(other SemanticVersion) int {
	if c := orZero(v.major).Cmp(orZero(other.major)); c != 0 {
		return c
	}
	if c := orZero(v.minor).Cmp(orZero(other.minor)); c != 0 {
		return c
	}
	return orZero(v.patch).Cmp(orZero(other.patch))
}

// LessThan returns true if v < other.
func (v SemanticVersion) LessThan(other SemanticVersion) bool {
	return v.Compare(other) < 0
}

// Equal returns true if both versions have identical components.
func (v SemanticVersion) Equal(other SemanticVersion) bool {
	return v.Compare(other) == 0
}

// Next returns the version that follows v for the given upgrade kind.
// An empty kind is treated as a patch upgrade.
func (v SemanticVersion) Next(kind UpgradeKind) SemanticVersion {
	one := big.NewInt(1)
	switch kind {
	case UpgradeMajor:
		return SemanticVersion{
			major: new(big.Int).Add(orZero(v.major), one),
			minor: new(big.Int),
			patch: new(big.Int),
		}
	case UpgradeMinor:
		return SemanticVersion{
			major: copyOf(v.major),
			minor: new(big.Int).Add(orZero(v.minor), one),
			patch: new(big.Int),
		}
	default:
		return SemanticVersion{
			major: copyOf(v.major),
			minor: copyOf(v.minor),
			patch: new(big.Int).Add(orZero(v.patch), one),
		}
	}
}

func orZero(n *big.Int) *big.Int {
	if n == nil {
		return new(big.Int)
	}
	return n
}

func copyOf(n *big.Int) *big.Int {
	return new(big.Int).Set(orZero(n))
}
