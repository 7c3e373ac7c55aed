// Package project provides the domain model for the per-project release record.
package project

import "strings"

// MetadataDir is the tool's private directory at the project root. It holds
// the persisted record and generated artifacts, and is ignored by the
// uncommitted-changes check.
const MetadataDir = ".lily"

// Placeholders written into a freshly created record.
const (
	PlaceholderName           = "... PUT HERE NAME OF YOUR PROJECT ..."
	PlaceholderRepository     = "... PUT HERE URL OF REPOSITORY ..."
	PlaceholderVersion        = "... PUT HERE INITIAL VERSION ..."
	PlaceholderLastCommitHash = "... THIS WILL BE FILLED AUTOMATICALLY ..."
)

// annotationSeparator starts free-form operator commentary in a commit hash field.
const annotationSeparator = "#"

// Record is the release record of a single project.
//
// Version and LastCommitHash describe the released state. NextVersion and
// NextLastCommitHash are the pending half: both nil when nothing is pending.
type Record struct {
	Name               string
	SrcDir             string
	Repository         string
	Version            string
	NextVersion        *string
	LastCommitHash     string
	NextLastCommitHash *string
}

// NewEmptyRecord returns a record filled with placeholders and no pending upgrade.
func NewEmptyRecord(srcDir string) Record {
	return Record{
		Name:           PlaceholderName,
		SrcDir:         srcDir,
		Repository:     PlaceholderRepository,
		Version:        PlaceholderVersion,
		LastCommitHash: PlaceholderLastCommitHash,
	}
}

// CommitHash returns LastCommitHash without its annotation.
func (r Record) CommitHash() string {
	return StripAnnotation(r.LastCommitHash)
}

// HasPending reports whether an upgrade is staged.
func (r Record) HasPending() bool {
	return r.NextVersion != nil
}

// StripAnnotation drops everything from the first '#' on and trims whitespace.
func StripAnnotation(hash string) string {
	head, _, _ := strings.Cut(hash, annotationSeparator)
	return strings.TrimSpace(head)
}

// Ptr returns a pointer to s, for populating the pending fields.
func Ptr(s string) *string {
	return &s
}
