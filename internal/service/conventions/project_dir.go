package conventions

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/relicta-tech/lily-assistant/internal/fileutil"
)

const maxPyprojectSize = 1 << 20

// pyproject is the subset of pyproject.toml used to name the project.
type pyproject struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
}

// FindProjectDir returns the main project package directory under root.
// The [project].name of pyproject.toml wins when it names a package
// directory; otherwise the first top-level package other than tests is used.
func FindProjectDir(root string) (string, error) {
	if name, ok := projectNameFromPyproject(root); ok && isPackage(root, name) {
		return name, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.Contains(name, ".") || strings.EqualFold(name, "tests") {
			continue
		}
		if isPackage(root, name) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", ErrNoProjectDir
	}

	sort.Strings(names)
	return names[0], nil
}

// projectNameFromPyproject returns the import name derived from
// [project].name, e.g. "lily-assistant" becomes "lily_assistant".
func projectNameFromPyproject(root string) (string, bool) {
	data, err := fileutil.ReadFileLimited(filepath.Join(root, "pyproject.toml"), maxPyprojectSize)
	if err != nil {
		return "", false
	}

	var p pyproject
	if err := toml.Unmarshal(data, &p); err != nil {
		return "", false
	}

	name := strings.TrimSpace(p.Project.Name)
	if name == "" {
		return "", false
	}
	return strings.ToLower(strings.NewReplacer("-", "_", ".", "_").Replace(name)), true
}

func isPackage(root, name string) bool {
	return fileutil.Exists(filepath.Join(root, name, "__init__.py"))
}
