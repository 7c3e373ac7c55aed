// Package persistence provides infrastructure implementations for data persistence.
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/relicta-tech/lily-assistant/internal/domain/project"
	"github.com/relicta-tech/lily-assistant/internal/domain/release"
	apperrors "github.com/relicta-tech/lily-assistant/internal/errors"
	"github.com/relicta-tech/lily-assistant/internal/fileutil"
)

const configFileName = "config.json"

// MaxConfigFileSize is the maximum allowed size for the project record (1MB).
const MaxConfigFileSize = 1 << 20

// checkContext checks if the context is canceled and returns the error if so.
func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// configDTO is the on-disk form of the record. Field order is the key order
// of the written file.
type configDTO struct {
	Name               string  `json:"name"`
	SrcDir             string  `json:"src_dir"`
	Repository         string  `json:"repository"`
	Version            string  `json:"version"`
	NextVersion        *string `json:"next_version"`
	LastCommitHash     string  `json:"last_commit_hash"`
	NextLastCommitHash *string `json:"next_last_commit_hash"`
}

func toDTO(r project.Record) configDTO {
	return configDTO{
		Name:               r.Name,
		SrcDir:             r.SrcDir,
		Repository:         r.Repository,
		Version:            r.Version,
		NextVersion:        r.NextVersion,
		LastCommitHash:     r.LastCommitHash,
		NextLastCommitHash: r.NextLastCommitHash,
	}
}

func fromDTO(d configDTO) project.Record {
	return project.Record{
		Name:               d.Name,
		SrcDir:             d.SrcDir,
		Repository:         d.Repository,
		Version:            d.Version,
		NextVersion:        d.NextVersion,
		LastCommitHash:     d.LastCommitHash,
		NextLastCommitHash: d.NextLastCommitHash,
	}
}

// ProjectStore reads and writes the project record under an explicit root.
type ProjectStore struct {
	root string
}

// NewProjectStore creates a store for the project rooted at root.
func NewProjectStore(root string) *ProjectStore {
	return &ProjectStore{root: root}
}

// Root returns the project root.
func (s *ProjectStore) Root() string {
	return s.root
}

// Dir returns the private metadata directory.
func (s *ProjectStore) Dir() string {
	return filepath.Join(s.root, project.MetadataDir)
}

// Path returns the path of the record file.
func (s *ProjectStore) Path() string {
	return filepath.Join(s.Dir(), configFileName)
}

// Exists reports whether the record file is present.
func (s *ProjectStore) Exists() bool {
	return fileutil.Exists(s.Path())
}

// Load reads the record. A missing file is a KindNotFound error and a
// malformed one a KindConfig error.
func (s *ProjectStore) Load(ctx context.Context) (*ProjectConfig, error) {
	const op = "persistence.Load"

	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	data, err := fileutil.ReadFileLimited(s.Path(), MaxConfigFileSize)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NotFoundWrap(err, op, "project config not found at "+s.Path()+", run init first")
		}
		return nil, apperrors.IOWrap(err, op, "failed to read project config")
	}

	var dto configDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, apperrors.ConfigWrap(err, op, "malformed project config "+s.Path())
	}

	return &ProjectConfig{store: s, record: fromDTO(dto)}, nil
}

// CreateEmpty writes a placeholder record for srcDir unless one already
// exists, in which case the existing record is returned untouched.
func (s *ProjectStore) CreateEmpty(ctx context.Context, srcDir string) (*ProjectConfig, error) {
	const op = "persistence.CreateEmpty"

	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if s.Exists() {
		return s.Load(ctx)
	}

	if err := fileutil.EnsureDir(s.Dir()); err != nil {
		return nil, apperrors.IOWrap(err, op, "failed to create "+project.MetadataDir+" directory")
	}

	cfg := &ProjectConfig{store: s, record: project.NewEmptyRecord(srcDir)}
	if err := s.write(cfg.record); err != nil {
		return nil, apperrors.IOWrap(err, op, "failed to write project config")
	}
	return cfg, nil
}

func (s *ProjectStore) write(r project.Record) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(toDTO(r)); err != nil {
		return err
	}
	return fileutil.AtomicWriteFile(s.Path(), bytes.TrimRight(buf.Bytes(), "\n"), fileutil.FilePerm)
}

// ProjectConfig is a loaded record bound to its store. Every setter rewrites
// the whole file before returning.
type ProjectConfig struct {
	store  *ProjectStore
	record project.Record
}

// Record returns a copy of the underlying record.
func (c *ProjectConfig) Record() project.Record {
	r := c.record
	r.NextVersion = clone(r.NextVersion)
	r.NextLastCommitHash = clone(r.NextLastCommitHash)
	return r
}

// Name returns the project display name.
func (c *ProjectConfig) Name() string { return c.record.Name }

// SrcDir returns the source directory relative to the project root.
func (c *ProjectConfig) SrcDir() string { return c.record.SrcDir }

// SrcPath returns the project root joined with SrcDir.
func (c *ProjectConfig) SrcPath() string {
	return filepath.Join(c.store.root, c.record.SrcDir)
}

// Repository returns the canonical remote URL.
func (c *ProjectConfig) Repository() string { return c.record.Repository }

// Version returns the released version.
func (c *ProjectConfig) Version() string { return c.record.Version }

// NextVersion returns the staged version, nil when nothing is pending.
func (c *ProjectConfig) NextVersion() *string { return clone(c.record.NextVersion) }

// LastCommitHash returns the released commit hash without its annotation.
func (c *ProjectConfig) LastCommitHash() string { return c.record.CommitHash() }

// RawLastCommitHash returns the stored value including any annotation.
func (c *ProjectConfig) RawLastCommitHash() string { return c.record.LastCommitHash }

// NextLastCommitHash returns the staged commit hash, nil when nothing is pending.
func (c *ProjectConfig) NextLastCommitHash() *string { return clone(c.record.NextLastCommitHash) }

// State returns the release state derived from the record.
func (c *ProjectConfig) State() release.State { return release.StateOf(c.record) }

// SetVersion sets the released version and persists the record.
func (c *ProjectConfig) SetVersion(v string) error {
	return c.update("persistence.SetVersion", func(r *project.Record) { r.Version = v })
}

// SetSrcDir sets the source directory and persists the record.
func (c *ProjectConfig) SetSrcDir(dir string) error {
	return c.update("persistence.SetSrcDir", func(r *project.Record) { r.SrcDir = dir })
}

// SetLastCommitHash sets the released commit hash and persists the record.
func (c *ProjectConfig) SetLastCommitHash(hash string) error {
	return c.update("persistence.SetLastCommitHash", func(r *project.Record) { r.LastCommitHash = hash })
}

// SetNextVersion sets or clears (nil) the staged version and persists the record.
func (c *ProjectConfig) SetNextVersion(v *string) error {
	return c.update("persistence.SetNextVersion", func(r *project.Record) { r.NextVersion = clone(v) })
}

// SetNextLastCommitHash sets or clears (nil) the staged commit hash and persists the record.
func (c *ProjectConfig) SetNextLastCommitHash(hash *string) error {
	return c.update("persistence.SetNextLastCommitHash", func(r *project.Record) { r.NextLastCommitHash = clone(hash) })
}

// update applies mutate and writes the record. On a failed write the
// in-memory record is restored.
func (c *ProjectConfig) update(op string, mutate func(*project.Record)) error {
	prev := c.record
	mutate(&c.record)
	if err := c.store.write(c.record); err != nil {
		c.record = prev
		return apperrors.IOWrap(err, op, "failed to persist project config")
	}
	return nil
}

func clone(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
