package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relicta-tech/lily-assistant/internal/domain/project"
	"github.com/relicta-tech/lily-assistant/internal/domain/release"
	apperrors "github.com/relicta-tech/lily-assistant/internal/errors"
)

func writeConfig(t *testing.T, root, content string) {
	t.Helper()
	dir := filepath.Join(root, project.MetadataDir)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0o644))
}

func TestProjectStore_LoadMissing(t *testing.T) {
	store := NewProjectStore(t.TempDir())

	assert.False(t, store.Exists())
	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestProjectStore_LoadMalformed(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "{not json")

	_, err := NewProjectStore(root).Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConfig))
}

func TestProjectStore_LoadCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProjectStore(t.TempDir()).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProjectStore_CreateEmpty(t *testing.T) {
	root := t.TempDir()
	store := NewProjectStore(root)

	cfg, err := store.CreateEmpty(context.Background(), "src")
	require.NoError(t, err)

	assert.True(t, store.Exists())
	assert.Equal(t, project.PlaceholderName, cfg.Name())
	assert.Equal(t, "src", cfg.SrcDir())
	assert.Equal(t, filepath.Join(root, "src"), cfg.SrcPath())
	assert.Equal(t, project.PlaceholderRepository, cfg.Repository())
	assert.Equal(t, project.PlaceholderVersion, cfg.Version())
	assert.Equal(t, project.PlaceholderLastCommitHash, cfg.LastCommitHash())
	assert.Nil(t, cfg.NextVersion())
	assert.Nil(t, cfg.NextLastCommitHash())
	assert.Equal(t, release.StateClean, cfg.State())

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	want := `{
    "name": "... PUT HERE NAME OF YOUR PROJECT ...",
    "src_dir": "src",
    "repository": "... PUT HERE URL OF REPOSITORY ...",
    "version": "... PUT HERE INITIAL VERSION ...",
    "next_version": null,
    "last_commit_hash": "... THIS WILL BE FILLED AUTOMATICALLY ...",
    "next_last_commit_hash": null
}`
	assert.Equal(t, want, string(data))
}

func TestProjectStore_CreateEmptyIsIdempotent(t *testing.T) {
	root := t.TempDir()
	existing := `{
    "name": "lily",
    "src_dir": "lily",
    "repository": "git@github.com:example/lily.git",
    "version": "1.2.12",
    "next_version": null,
    "last_commit_hash": "aaa",
    "next_last_commit_hash": null
}`
	writeConfig(t, root, existing)
	store := NewProjectStore(root)

	cfg, err := store.CreateEmpty(context.Background(), "other")
	require.NoError(t, err)
	assert.Equal(t, "lily", cfg.SrcDir())
	assert.Equal(t, "1.2.12", cfg.Version())

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, existing, string(data), "existing record must be left untouched")
}

func TestProjectConfig_LastCommitHashStripsAnnotation(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{"name":"n","src_dir":"s","repository":"r","version":"1.0.0",
		"next_version":null,"last_commit_hash":"abc123 # pending review","next_last_commit_hash":null}`)

	cfg, err := NewProjectStore(root).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "abc123", cfg.LastCommitHash())
	assert.Equal(t, "abc123 # pending review", cfg.RawLastCommitHash())
}

func TestProjectConfig_SettersRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewProjectStore(t.TempDir())

	cfg, err := store.CreateEmpty(ctx, "src")
	require.NoError(t, err)

	require.NoError(t, cfg.SetVersion("1.2.12"))
	require.NoError(t, cfg.SetSrcDir("lily"))
	require.NoError(t, cfg.SetLastCommitHash("aaa"))
	require.NoError(t, cfg.SetNextVersion(project.Ptr("1.2.13")))
	require.NoError(t, cfg.SetNextLastCommitHash(project.Ptr("bbb")))

	fresh, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.2.12", fresh.Version())
	assert.Equal(t, "lily", fresh.SrcDir())
	assert.Equal(t, "aaa", fresh.LastCommitHash())
	require.NotNil(t, fresh.NextVersion())
	assert.Equal(t, "1.2.13", *fresh.NextVersion())
	require.NotNil(t, fresh.NextLastCommitHash())
	assert.Equal(t, "bbb", *fresh.NextLastCommitHash())
	assert.Equal(t, release.StatePending, fresh.State())

	require.NoError(t, cfg.SetNextVersion(nil))
	require.NoError(t, cfg.SetNextLastCommitHash(nil))

	fresh, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, fresh.NextVersion())
	assert.Nil(t, fresh.NextLastCommitHash())
	assert.Equal(t, release.StateClean, fresh.State())
}

func TestProjectConfig_GettersReturnCopies(t *testing.T) {
	ctx := context.Background()
	store := NewProjectStore(t.TempDir())
	cfg, err := store.CreateEmpty(ctx, "src")
	require.NoError(t, err)
	require.NoError(t, cfg.SetNextVersion(project.Ptr("1.2.13")))
	require.NoError(t, cfg.SetNextLastCommitHash(project.Ptr("bbb")))

	*cfg.NextVersion() = "9.9.9"
	*cfg.NextLastCommitHash() = "zzz"
	record := cfg.Record()
	*record.NextVersion = "8.8.8"
	*record.NextLastCommitHash = "yyy"

	assert.Equal(t, "1.2.13", *cfg.NextVersion())
	assert.Equal(t, "bbb", *cfg.NextLastCommitHash())

	fresh, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg.Record(), fresh.Record())
}

func TestProjectConfig_FailedWriteRestoresValue(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	store := NewProjectStore(t.TempDir())
	cfg, err := store.CreateEmpty(context.Background(), "src")
	require.NoError(t, err)
	require.NoError(t, cfg.SetVersion("1.0.0"))

	require.NoError(t, os.Chmod(store.Dir(), 0o500))
	t.Cleanup(func() { _ = os.Chmod(store.Dir(), 0o755) })

	err = cfg.SetVersion("2.0.0")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindIO))
	assert.Equal(t, "1.0.0", cfg.Version())
}
