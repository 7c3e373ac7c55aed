// Package conventions provides the repository convention checks: required
// project layout, protected branch, commit message and virtual environment.
package conventions

import (
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/relicta-tech/lily-assistant/internal/fileutil"
)

// ProjectDirPlaceholder in a directory rule name stands for the discovered
// main project directory.
const ProjectDirPlaceholder = "{project}"

// MaxRulesFileSize is the maximum allowed size for a rules file.
const MaxRulesFileSize = 256 << 10

// Rule is one required entry at the project root.
type Rule struct {
	Name    string `yaml:"name"`
	Purpose string `yaml:"purpose"`
}

// Rules is the required project layout.
type Rules struct {
	Files       []Rule `yaml:"files"`
	Directories []Rule `yaml:"directories"`
}

// DefaultRules returns the layout of a Python project managed by lily-assistant.
func DefaultRules() Rules {
	return Rules{
		Files: []Rule{
			{Name: "env.sh", Purpose: "storing all environment variables needed by project"},
			{Name: "pytest.ini", Purpose: "configuration of py.test"},
			{Name: "README.md", Purpose: "general overview of the project, steps to install etc."},
			{Name: "requirements.txt", Purpose: "project python package dependencies"},
			{Name: "test-requirements.txt", Purpose: "project python package tests dependencies"},
			{Name: "setup.py", Purpose: "builder"},
			{Name: "Makefile", Purpose: "make file for all commands"},
			{Name: ".gitignore", Purpose: "git file for ignoring not tracked files"},
		},
		Directories: []Rule{
			{Name: "tests", Purpose: "tests directory"},
			{Name: ".git", Purpose: "git repo directory"},
			{Name: ProjectDirPlaceholder, Purpose: "project code directory"},
		},
	}
}

// needsProjectDir reports whether any directory rule uses the placeholder.
func (r Rules) needsProjectDir() bool {
	for _, d := range r.Directories {
		if d.Name == ProjectDirPlaceholder {
			return true
		}
	}
	return false
}

// Validate checks that every rule has a name.
func (r Rules) Validate() error {
	if len(r.Files) == 0 && len(r.Directories) == 0 {
		return errors.New("structure rules are empty")
	}
	for i, f := range r.Files {
		if f.Name == "" {
			return fmt.Errorf("files[%d]: name is required", i)
		}
	}
	for i, d := range r.Directories {
		if d.Name == "" {
			return fmt.Errorf("directories[%d]: name is required", i)
		}
	}
	return nil
}

// LoadRules reads rules from a YAML file. A missing file yields
// DefaultRules and found=false.
func LoadRules(path string) (rules Rules, found bool, err error) {
	data, err := fileutil.ReadFileLimited(path, MaxRulesFileSize)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultRules(), false, nil
		}
		return Rules{}, false, err
	}

	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, true, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, true, fmt.Errorf("invalid %s: %w", path, err)
	}
	return rules, true, nil
}
