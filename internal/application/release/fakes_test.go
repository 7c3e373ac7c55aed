package release

import (
	"context"
	"errors"

	"github.com/relicta-tech/lily-assistant/internal/domain/project"
	"github.com/relicta-tech/lily-assistant/internal/domain/release"
)

// fakeConfig is an in-memory ProjectConfig. failOn makes the named setter fail.
type fakeConfig struct {
	record project.Record
	writes []string
	failOn string
}

var errWriteFailed = errors.New("write failed")

func (c *fakeConfig) Version() string             { return c.record.Version }
func (c *fakeConfig) NextVersion() *string        { return c.record.NextVersion }
func (c *fakeConfig) LastCommitHash() string      { return c.record.CommitHash() }
func (c *fakeConfig) NextLastCommitHash() *string { return c.record.NextLastCommitHash }
func (c *fakeConfig) State() release.State        { return release.StateOf(c.record) }

func (c *fakeConfig) write(name string, apply func()) error {
	if c.failOn == name {
		return errWriteFailed
	}
	apply()
	c.writes = append(c.writes, name)
	return nil
}

func (c *fakeConfig) SetVersion(v string) error {
	return c.write("SetVersion", func() { c.record.Version = v })
}

func (c *fakeConfig) SetNextVersion(v *string) error {
	return c.write("SetNextVersion", func() { c.record.NextVersion = v })
}

func (c *fakeConfig) SetLastCommitHash(hash string) error {
	return c.write("SetLastCommitHash", func() { c.record.LastCommitHash = hash })
}

func (c *fakeConfig) SetNextLastCommitHash(hash *string) error {
	return c.write("SetNextLastCommitHash", func() { c.record.NextLastCommitHash = hash })
}

func (c *fakeConfig) loader() ConfigLoader {
	return func(context.Context) (ProjectConfig, error) { return c, nil }
}

// fakeGateway records every repository call.
type fakeGateway struct {
	clean   bool
	head    string
	branch  string
	calls   []string
	commits []string

	statusErr error
	headErr   error
	addErr    error
	commitErr error
	pushErr   error
}

func (g *fakeGateway) CurrentCommitHash(context.Context) (string, error) {
	g.calls = append(g.calls, "CurrentCommitHash")
	return g.head, g.headErr
}

func (g *fakeGateway) CurrentBranch(context.Context) (string, error) {
	g.calls = append(g.calls, "CurrentBranch")
	return g.branch, nil
}

func (g *fakeGateway) AllChangesCommitted(context.Context) (bool, error) {
	g.calls = append(g.calls, "AllChangesCommitted")
	return g.clean, g.statusErr
}

func (g *fakeGateway) AddAll(context.Context) error {
	g.calls = append(g.calls, "AddAll")
	return g.addErr
}

func (g *fakeGateway) Commit(_ context.Context, message string) error {
	g.calls = append(g.calls, "Commit")
	g.commits = append(g.commits, message)
	return g.commitErr
}

func (g *fakeGateway) Push(context.Context) error {
	g.calls = append(g.calls, "Push")
	return g.pushErr
}

func (g *fakeGateway) Pull(context.Context) error {
	g.calls = append(g.calls, "Pull")
	return nil
}

func (g *fakeGateway) Stash(context.Context) error {
	g.calls = append(g.calls, "Stash")
	return nil
}

func (g *fakeGateway) count(call string) int {
	n := 0
	for _, c := range g.calls {
		if c == call {
			n++
		}
	}
	return n
}

func releasedRecord(v, hash string) project.Record {
	return project.Record{
		Name:           "lily",
		SrcDir:         "lily",
		Repository:     "git@github.com:example/lily.git",
		Version:        v,
		LastCommitHash: hash,
	}
}
