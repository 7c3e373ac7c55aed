package conventions

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const bannerLine = "!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!!"

// EntryKind distinguishes file and directory rules.
type EntryKind string

const (
	// EntryFile is a required regular file (or anything at the path).
	EntryFile EntryKind = "file"
	// EntryDirectory is a required directory.
	EntryDirectory EntryKind = "directory"
)

// Violation is a required entry missing from the project root.
type Violation struct {
	Kind    EntryKind
	Name    string
	Purpose string
}

// String renders the violation the way operators see it.
func (v Violation) String() string {
	return fmt.Sprintf("Missing: `%s` %s. Its purpose is: %s", v.Name, v.Kind, v.Purpose)
}

// Report is the outcome of a structure validation.
type Report struct {
	Root       string
	ProjectDir string
	Rules      Rules
	Violations []Violation
}

// OK reports whether no violations were found.
func (r *Report) OK() bool {
	return len(r.Violations) == 0
}

// String renders the multi-line error block with the required layout.
func (r *Report) String() string {
	var b strings.Builder
	b.WriteString(bannerLine + "\n")
	b.WriteString("Project Structure Errors Detected\n\n")
	b.WriteString("REQUIRED STRUCTURE:\n")
	b.WriteString(renderTree(r.Rules, r.ProjectDir))
	b.WriteString("\nERRORS:\n")
	for _, v := range r.Violations {
		b.WriteString("+ " + v.String() + "\n")
	}
	return b.String()
}

// Err returns a *StructureError when there are violations, nil otherwise.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return &StructureError{Report: r}
}

// StructureError carries a failing report.
type StructureError struct {
	Report *Report
}

// Error implements the error interface.
func (e *StructureError) Error() string {
	return fmt.Sprintf("%d required entries missing", len(e.Report.Violations))
}

// Unwrap returns ErrBrokenStructure.
func (e *StructureError) Unwrap() error {
	return ErrBrokenStructure
}

// StructureValidator checks a project root against a set of rules.
type StructureValidator struct {
	rules Rules
}

// NewStructureValidator creates a validator for rules.
func NewStructureValidator(rules Rules) *StructureValidator {
	return &StructureValidator{rules: rules}
}

// Validate collects every missing entry under root. It fails only when the
// rules need the project directory and none can be found.
func (v *StructureValidator) Validate(root string) (*Report, error) {
	report := &Report{Root: root, Rules: v.rules}

	if v.rules.needsProjectDir() {
		dir, err := FindProjectDir(root)
		if err != nil {
			return nil, fmt.Errorf("%w: %w\n\n%s", ErrBrokenStructure, err, missingProjectDirHint)
		}
		report.ProjectDir = dir
	}

	for _, f := range v.rules.Files {
		if _, err := os.Stat(filepath.Join(root, f.Name)); err != nil {
			report.Violations = append(report.Violations, Violation{Kind: EntryFile, Name: f.Name, Purpose: f.Purpose})
		}
	}
	for _, d := range v.rules.Directories {
		name := report.resolve(d.Name)
		info, err := os.Stat(filepath.Join(root, name))
		if err != nil || !info.IsDir() {
			report.Violations = append(report.Violations, Violation{Kind: EntryDirectory, Name: name, Purpose: d.Purpose})
		}
	}

	return report, nil
}

func (r *Report) resolve(name string) string {
	if name == ProjectDirPlaceholder {
		return r.ProjectDir
	}
	return name
}

const missingProjectDirHint = `Required structure:

└── <project_dir>
    └── __init__.py`

// renderTree draws directories in rule order, then files sorted
// case-insensitively.
func renderTree(rules Rules, projectDir string) string {
	type line struct {
		text  string
		child string
	}

	var lines []line
	for _, d := range rules.Directories {
		if d.Name == ProjectDirPlaceholder {
			name := projectDir
			if name == "" {
				name = "<project_dir>"
			}
			lines = append(lines, line{text: name + "/", child: "__init__.py"})
			continue
		}
		lines = append(lines, line{text: d.Name + "/"})
	}

	files := make([]string, 0, len(rules.Files))
	for _, f := range rules.Files {
		files = append(files, f.Name)
	}
	sort.SliceStable(files, func(i, j int) bool {
		return strings.ToLower(strings.TrimPrefix(files[i], ".")) < strings.ToLower(strings.TrimPrefix(files[j], "."))
	})
	for _, f := range files {
		lines = append(lines, line{text: f})
	}

	var b strings.Builder
	for i, l := range lines {
		last := i == len(lines)-1
		branch, indent := "├── ", "│   "
		if last {
			branch, indent = "└── ", "    "
		}
		b.WriteString(branch + l.text + "\n")
		if l.child != "" {
			b.WriteString(indent + "└── " + l.child + "\n")
		}
	}
	return b.String()
}
