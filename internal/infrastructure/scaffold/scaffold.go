// Package scaffold installs the git hooks and the makefile snippet that
// connect a project to lily-assistant.
package scaffold

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"text/template"

	"github.com/charmbracelet/log"

	"github.com/relicta-tech/lily-assistant/internal/domain/project"
	apperrors "github.com/relicta-tech/lily-assistant/internal/errors"
	"github.com/relicta-tech/lily-assistant/internal/fileutil"
)

//go:embed templates/hooks/* templates/*.tmpl
var embeddedTemplates embed.FS

const (
	hooksDir         = "templates/hooks"
	makefileTemplate = "templates/lily_assistant.makefile.tmpl"

	// MakefileName is the generated snippet inside the metadata directory.
	MakefileName = "lily_assistant.makefile"

	hookPerm os.FileMode = 0o755
)

// ErrNotProjectRoot indicates init was run outside a repository root.
var ErrNotProjectRoot = errors.New("it seems that you've executed not from the root of the project")

// IncludeLine is the line operators add to their Makefile.
var IncludeLine = "include " + path.Join(project.MetadataDir, MakefileName)

// MakefileData is the data the makefile template is rendered with.
type MakefileData struct {
	SrcDir  string
	Version string
}

// Result describes what Init wrote.
type Result struct {
	HooksDir     string
	Hooks        []string
	MakefilePath string
}

// Bootstrapper writes the scaffold into a project root.
type Bootstrapper struct {
	root   string
	logger *log.Logger
}

// NewBootstrapper creates a Bootstrapper for root.
func NewBootstrapper(root string, logger *log.Logger) *Bootstrapper {
	if logger == nil {
		logger = log.Default()
	}
	return &Bootstrapper{root: root, logger: logger}
}

// CheckRoot fails with ErrNotProjectRoot unless root holds a .git directory.
func (b *Bootstrapper) CheckRoot() error {
	if !fileutil.IsDir(filepath.Join(b.root, ".git")) {
		return apperrors.PreconditionWrap(ErrNotProjectRoot, "scaffold.CheckRoot", b.root)
	}
	return nil
}

// Init replaces .git/hooks with the embedded hooks and renders the makefile
// snippet into the metadata directory.
func (b *Bootstrapper) Init(ctx context.Context, srcDir, version string) (*Result, error) {
	const op = "scaffold.Init"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := b.CheckRoot(); err != nil {
		return nil, err
	}
	gitDir := filepath.Join(b.root, ".git")

	hooks, err := b.installHooks(filepath.Join(gitDir, "hooks"))
	if err != nil {
		return nil, apperrors.IOWrap(err, op, "failed to install git hooks")
	}

	makefilePath, err := b.writeMakefile(MakefileData{SrcDir: srcDir, Version: version})
	if err != nil {
		return nil, apperrors.IOWrap(err, op, "failed to write makefile")
	}

	return &Result{
		HooksDir:     filepath.Join(gitDir, "hooks"),
		Hooks:        hooks,
		MakefilePath: makefilePath,
	}, nil
}

func (b *Bootstrapper) installHooks(dest string) ([]string, error) {
	if err := os.RemoveAll(dest); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dest, fileutil.DirPerm); err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(embeddedTemplates, hooksDir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		data, err := embeddedTemplates.ReadFile(path.Join(hooksDir, e.Name()))
		if err != nil {
			return nil, err
		}
		if err := fileutil.AtomicWriteFile(filepath.Join(dest, e.Name()), data, hookPerm); err != nil {
			return nil, fmt.Errorf("hook %s: %w", e.Name(), err)
		}
		names = append(names, e.Name())
	}

	b.logger.Info("copied git hooks", "dir", dest, "hooks", names)
	return names, nil
}

func (b *Bootstrapper) writeMakefile(data MakefileData) (string, error) {
	content, err := RenderMakefile(data)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(b.root, project.MetadataDir)
	if err := fileutil.EnsureDir(dir); err != nil {
		return "", err
	}

	dest := filepath.Join(dir, MakefileName)
	if err := fileutil.AtomicWriteFile(dest, content, fileutil.FilePerm); err != nil {
		return "", err
	}

	b.logger.Info("copied lily-assistant makefile", "path", dest)
	return dest, nil
}

// RenderMakefile renders the embedded makefile template.
func RenderMakefile(data MakefileData) ([]byte, error) {
	tmpl, err := template.New(path.Base(makefileTemplate)).
		Option("missingkey=error").
		ParseFS(embeddedTemplates, makefileTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse makefile template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render makefile template: %w", err)
	}
	return buf.Bytes(), nil
}
