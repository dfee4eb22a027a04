package repo

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// porcelainUntracked matches status --porcelain lines for untracked files.
var porcelainUntracked = regexp.MustCompile(`(?m)^\?`)

// CLIGitter is the concrete implementation of Gitter using the git CLI.
type CLIGitter struct {
	timeout time.Duration
}

// NewCLIGitter creates a new CLIGitter. Every git invocation is bounded by
// the given timeout.
func NewCLIGitter(timeout time.Duration) *CLIGitter {
	return &CLIGitter{timeout: timeout}
}

// run executes a git command in dir and returns its trimmed stdout and exit
// code. A non-zero exit code is not an error; callers decide what it means.
func (g *CLIGitter) run(ctx context.Context, dir string, args ...string) (string, int, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return "", -1, &QueryTimeoutError{Args: args, Timeout: g.timeout}
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return strings.TrimSpace(stdout.String()), exitErr.ExitCode(), nil
		}
		// git missing or not executable
		return "", -1, &CommandError{Args: args, Output: stderr.String(), Wrapped: err}
	}
	return strings.TrimSpace(stdout.String()), 0, nil
}

// runChecked is run but treats any non-zero exit code as a CommandError.
func (g *CLIGitter) runChecked(ctx context.Context, dir string, args ...string) (string, error) {
	out, code, err := g.run(ctx, dir, args...)
	if err != nil {
		return "", err
	}
	if code != 0 {
		return "", &CommandError{Args: args, Output: out}
	}
	return out, nil
}

func (g *CLIGitter) TopLevel(ctx context.Context, dir string) (string, error) {
	out, code, err := g.run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	if code != 0 || out == "" {
		return "", &NotARepositoryError{Path: dir}
	}
	return out, nil
}

func (g *CLIGitter) Head(ctx context.Context, dir string) (string, error) {
	out, code, err := g.run(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	if code != 0 {
		// HEAD doesn't point to anything yet
		return "", &NoCommitsError{Path: dir}
	}
	return out, nil
}

func (g *CLIGitter) Describe(ctx context.Context, dir, matchPattern string) (string, error) {
	args := []string{"describe", "--tags", "--always", "--long"}
	if matchPattern != "" {
		args = append(args, "--match", matchPattern)
	}
	return g.runChecked(ctx, dir, args...)
}

func (g *CLIGitter) CommitCount(ctx context.Context, dir string) (int, error) {
	out, err := g.runChecked(ctx, dir, "rev-list", "HEAD", "--count")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(out)
	if err != nil {
		return 0, &CommandError{Args: []string{"rev-list", "HEAD", "--count"}, Output: out, Wrapped: err}
	}
	return n, nil
}

func (g *CLIGitter) IsDirty(ctx context.Context, dir string, headless bool) (bool, error) {
	if !headless {
		_, code, err := g.run(ctx, dir, "diff", "--quiet", "HEAD")
		if err != nil {
			return false, err
		}
		if code != 0 {
			return true, nil
		}
	}

	// HEAD and the index/working tree agree; untracked and unignored files
	// still count as dirty.
	status, err := g.runChecked(ctx, dir, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	if headless {
		return status != "", nil
	}
	return porcelainUntracked.MatchString(status), nil
}

func (g *CLIGitter) Branch(ctx context.Context, dir string) (string, error) {
	branch, err := g.runChecked(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if branch != "HEAD" {
		return branch, nil
	}

	// Detached HEAD: look for a containing branch instead.
	out, err := g.runChecked(ctx, dir, "branch", "--format=%(refname:lstrip=2)", "--contains")
	if err != nil {
		return "", err
	}
	branches := strings.Fields(out)
	if len(branches) == 0 {
		return "", nil
	}

	preferred := []string{g.defaultBranch(ctx, dir), "master", "main"}
	for _, p := range preferred {
		for _, b := range branches {
			if b == p {
				return b, nil
			}
		}
	}
	return branches[0], nil
}

// defaultBranch returns the configured init.defaultBranch. The key was added
// in git 2.28; the default before that was master.
func (g *CLIGitter) defaultBranch(ctx context.Context, dir string) string {
	out, code, err := g.run(ctx, dir, "config", "init.defaultBranch")
	if err != nil || code != 0 || out == "" {
		return "master"
	}
	return out
}

func (g *CLIGitter) CommitDate(ctx context.Context, dir string) (time.Time, error) {
	out, err := g.runChecked(ctx, dir, "show", "-s", "--format=%cI", "HEAD")
	if err != nil {
		return time.Time{}, err
	}
	date, err := time.Parse(time.RFC3339, out)
	if err != nil {
		return time.Time{}, &CommandError{Args: []string{"show", "-s", "--format=%cI", "HEAD"}, Output: out, Wrapped: err}
	}
	return date, nil
}
