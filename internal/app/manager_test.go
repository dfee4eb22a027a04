package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/andyballingall/gitver/internal/config"
	"github.com/andyballingall/gitver/internal/repo"
	"github.com/andyballingall/gitver/internal/semver"
	"github.com/andyballingall/gitver/internal/version"
)

// stubGitter is a canned repo.Gitter for manager tests.
type stubGitter struct {
	topLevelErr error
	describe    string
}

const stubSHA = "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2"

func (g *stubGitter) TopLevel(_ context.Context, dir string) (string, error) {
	if g.topLevelErr != nil {
		return "", g.topLevelErr
	}
	return dir, nil
}

func (g *stubGitter) Head(_ context.Context, _ string) (string, error) {
	return stubSHA, nil
}

func (g *stubGitter) Describe(_ context.Context, _, _ string) (string, error) {
	return g.describe, nil
}

func (g *stubGitter) CommitCount(_ context.Context, _ string) (int, error) {
	return 0, nil
}

func (g *stubGitter) IsDirty(_ context.Context, _ string, _ bool) (bool, error) {
	return false, nil
}

func (g *stubGitter) Branch(_ context.Context, _ string) (string, error) {
	return "main", nil
}

func (g *stubGitter) CommitDate(_ context.Context, _ string) (time.Time, error) {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newManager(g repo.Gitter, cfg *config.Config) (*CLIManager, *bytes.Buffer) {
	cache := version.NewCache()
	resolver := version.NewResolver(g, cfg, discardLogger(), cache)
	m := NewCLIManager(discardLogger(), cfg, g, resolver, cache)
	var buf bytes.Buffer
	m.reporterWriter = &buf
	return m, &buf
}

func TestCLIManager_Resolve(t *testing.T) {
	t.Parallel()

	g := &stubGitter{describe: "v1.2.0-0-ga1b2c3d"}
	m, _ := newManager(g, config.Default())

	info, err := m.Resolve(context.Background(), "/repo")
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", info.Version)
}

func TestCLIManager_Resolve_FallsBackToCachedVersion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Write = &config.WriteConfig{JSONPath: "version.json"}

	cached := &version.Info{
		Tag:       "v1.2.0",
		TagPrefix: "v",
		Base:      semver.MustParse("1.2.0"),
		Version:   "1.2.0",
	}
	content, err := version.JSONContent(cached)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "version.json"), []byte(content), 0o644))

	g := &stubGitter{topLevelErr: &repo.NotARepositoryError{Path: dir}}
	m, _ := newManager(g, cfg)

	info, err := m.Resolve(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", info.Version)
	assert.Equal(t, "v1.2.0", info.Tag)
}

func TestCLIManager_Resolve_NoCachedVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{name: "No Write Config", cfg: config.Default()},
		{
			name: "Sidecar Missing",
			cfg: func() *config.Config {
				c := config.Default()
				c.Write = &config.WriteConfig{JSONPath: "version.json"}
				return c
			}(),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			g := &stubGitter{topLevelErr: &repo.NotARepositoryError{Path: dir}}
			m, _ := newManager(g, tt.cfg)

			_, err := m.Resolve(context.Background(), dir)
			require.Error(t, err)

			var notRepo *repo.NotARepositoryError
			assert.ErrorAs(t, err, &notRepo)
		})
	}
}

func TestCLIManager_Report(t *testing.T) {
	t.Parallel()

	g := &stubGitter{describe: "v1.2.0-3-ga1b2c3d"}
	m, buf := newManager(g, config.Default())

	require.NoError(t, m.Report(context.Background(), "/repo", "text", false))
	assert.Equal(t, "1.2.1-dev.3+ga1b2c3d\n", buf.String())
}

func TestCLIManager_Report_JSON(t *testing.T) {
	t.Parallel()

	g := &stubGitter{describe: "v1.2.0-3-ga1b2c3d"}
	m, buf := newManager(g, config.Default())

	require.NoError(t, m.Report(context.Background(), "/repo", "json", false))

	out := buf.String()
	require.True(t, gjson.Valid(out))
	assert.Equal(t, "1.2.1-dev.3+ga1b2c3d", gjson.Get(out, "version").String())
	assert.Equal(t, "v1.2.0", gjson.Get(out, "tag").String())
}

func TestCLIManager_WriteVersionFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "internal", "buildinfo"), 0o755))

	cfg := config.Default()
	cfg.Write = &config.WriteConfig{
		Path:     "internal/buildinfo/version.go",
		Package:  "buildinfo",
		JSONPath: "internal/buildinfo/version.json",
	}

	g := &stubGitter{describe: "v1.2.0-0-ga1b2c3d"}
	m, buf := newManager(g, cfg)

	require.NoError(t, m.WriteVersionFiles(context.Background(), dir))

	goFile, err := os.ReadFile(filepath.Join(dir, "internal", "buildinfo", "version.go"))
	require.NoError(t, err)
	assert.Contains(t, string(goFile), "package buildinfo")
	assert.Contains(t, string(goFile), `Version   = "1.2.0"`)

	jsonFile, err := os.ReadFile(filepath.Join(dir, "internal", "buildinfo", "version.json"))
	require.NoError(t, err)
	assert.Equal(t, "1.2.0", gjson.GetBytes(jsonFile, "version").String())

	out := buf.String()
	assert.Contains(t, out, "Wrote")
	assert.Contains(t, out, "version.go")
	assert.Contains(t, out, "version.json")
}

func TestCLIManager_WriteVersionFiles_NoTargetConfigured(t *testing.T) {
	t.Parallel()

	g := &stubGitter{describe: "v1.2.0-0-ga1b2c3d"}
	m, _ := newManager(g, config.Default())

	err := m.WriteVersionFiles(context.Background(), t.TempDir())
	require.Error(t, err)

	var missing *config.MissingPropertyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "write", missing.Property)
}
