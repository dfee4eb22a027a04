package repo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// runGit executes git with a fixed identity so commits and tags work without
// touching the developer's global configuration.
func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=tester",
		"GIT_AUTHOR_EMAIL=tester@example.com",
		"GIT_COMMITTER_NAME=tester",
		"GIT_COMMITTER_EMAIL=tester@example.com",
		"GIT_CONFIG_GLOBAL="+os.DevNull,
		"GIT_CONFIG_SYSTEM="+os.DevNull,
	)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return strings.TrimSpace(string(out))
}

// newRepo creates an empty repository on branch main and returns its root.
func newRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")
	return dir
}

func commitFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	runGit(t, dir, "add", name)
	runGit(t, dir, "commit", "-m", "add "+name)
}

func newGitter() *CLIGitter {
	return NewCLIGitter(10 * time.Second)
}

func TestCLIGitter_TopLevel(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir := newRepo(t)
	sub := filepath.Join(dir, "nested", "deep")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	root, err := newGitter().TopLevel(context.Background(), sub)
	require.NoError(t, err)

	// Temp dirs may be reached through symlinks on some platforms.
	wantRoot, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	gotRoot, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, wantRoot, gotRoot)
}

func TestCLIGitter_TopLevel_NotARepository(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir := t.TempDir()
	_, err := newGitter().TopLevel(context.Background(), dir)
	require.Error(t, err)

	var notRepo *NotARepositoryError
	require.ErrorAs(t, err, &notRepo)
	assert.Equal(t, dir, notRepo.Path)
}

func TestCLIGitter_Head(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir := newRepo(t)
	g := newGitter()

	_, err := g.Head(context.Background(), dir)
	var noCommits *NoCommitsError
	require.ErrorAs(t, err, &noCommits)

	commitFile(t, dir, "a.txt", "a\n")
	sha, err := g.Head(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, sha, 40)
	assert.Equal(t, runGit(t, dir, "rev-parse", "HEAD"), sha)
}

func TestCLIGitter_Describe(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir := newRepo(t)
	commitFile(t, dir, "a.txt", "a\n")
	runGit(t, dir, "tag", "v1.2.0")

	g := newGitter()
	out, err := g.Describe(context.Background(), dir, "v*")
	require.NoError(t, err)
	assert.Regexp(t, `^v1\.2\.0-0-g[0-9a-f]+$`, out)

	commitFile(t, dir, "b.txt", "b\n")
	out, err = g.Describe(context.Background(), dir, "v*")
	require.NoError(t, err)
	assert.Regexp(t, `^v1\.2\.0-1-g[0-9a-f]+$`, out)
}

func TestCLIGitter_Describe_NoTags(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir := newRepo(t)
	commitFile(t, dir, "a.txt", "a\n")

	out, err := newGitter().Describe(context.Background(), dir, "v*")
	require.NoError(t, err)

	// With no matching tag, --always falls back to the abbreviated hash.
	assert.Regexp(t, `^[0-9a-f]{7,}$`, out)
	assert.NotContains(t, out, "-")
}

func TestCLIGitter_CommitCount(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir := newRepo(t)
	commitFile(t, dir, "a.txt", "a\n")
	commitFile(t, dir, "b.txt", "b\n")
	commitFile(t, dir, "c.txt", "c\n")

	count, err := newGitter().CommitCount(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCLIGitter_IsDirty(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir := newRepo(t)
	commitFile(t, dir, "a.txt", "a\n")
	g := newGitter()

	dirty, err := g.IsDirty(context.Background(), dir, false)
	require.NoError(t, err)
	assert.False(t, dirty)

	// Modifying a tracked file makes the tree dirty.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("changed\n"), 0o644))
	dirty, err = g.IsDirty(context.Background(), dir, false)
	require.NoError(t, err)
	assert.True(t, dirty)

	runGit(t, dir, "checkout", "--", "a.txt")

	// So does an untracked file, even though diff HEAD ignores it.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("new\n"), 0o644))
	dirty, err = g.IsDirty(context.Background(), dir, false)
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestCLIGitter_IsDirty_Headless(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir := newRepo(t)
	g := newGitter()

	dirty, err := g.IsDirty(context.Background(), dir, true)
	require.NoError(t, err)
	assert.False(t, dirty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a\n"), 0o644))
	dirty, err = g.IsDirty(context.Background(), dir, true)
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestCLIGitter_Branch(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir := newRepo(t)
	commitFile(t, dir, "a.txt", "a\n")

	g := newGitter()
	branch, err := g.Branch(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestCLIGitter_Branch_DetachedHead(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir := newRepo(t)
	commitFile(t, dir, "a.txt", "a\n")
	runGit(t, dir, "checkout", "--detach")

	branch, err := newGitter().Branch(context.Background(), dir)
	require.NoError(t, err)

	// Detached at the tip of main; the containing branch is reported.
	assert.Equal(t, "main", branch)
}

func TestCLIGitter_CommitDate(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir := newRepo(t)
	commitFile(t, dir, "a.txt", "a\n")

	date, err := newGitter().CommitDate(context.Background(), dir)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), date, time.Hour)
}

func TestCLIGitter_Timeout(t *testing.T) {
	t.Parallel()
	requireGit(t)

	dir := newRepo(t)
	g := NewCLIGitter(time.Nanosecond)

	_, err := g.TopLevel(context.Background(), dir)
	require.Error(t, err)

	var timeoutErr *QueryTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, time.Nanosecond, timeoutErr.Timeout)
}
