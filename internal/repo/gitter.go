package repo

import (
	"context"
	"time"
)

// Gitter defines the read-only git queries needed to resolve a version.
// All methods take the working tree directory to query; none of them may
// mutate the repository.
type Gitter interface {
	// TopLevel returns the absolute path of the working tree root containing
	// dir, or a NotARepositoryError.
	TopLevel(ctx context.Context, dir string) (string, error)

	// Head returns the full SHA of HEAD, or a NoCommitsError for a
	// repository with no commits.
	Head(ctx context.Context, dir string) (string, error)

	// Describe runs git describe --tags --always --long against HEAD,
	// considering only tags matching the given glob pattern. The output is
	// either "TAG-DISTANCE-gSHA" or a bare abbreviated hash when no tag
	// matches.
	Describe(ctx context.Context, dir, matchPattern string) (string, error)

	// CommitCount returns the number of commits reachable from HEAD.
	CommitCount(ctx context.Context, dir string) (int, error)

	// IsDirty reports whether the working tree differs from HEAD, including
	// untracked and unignored files. headless must be true for a repository
	// with no commits, in which case any status output counts as dirty.
	IsDirty(ctx context.Context, dir string, headless bool) (bool, error)

	// Branch returns the current branch name. For a detached HEAD it
	// returns the most plausible containing branch, preferring the
	// configured default branch, then master and main.
	Branch(ctx context.Context, dir string) (string, error)

	// CommitDate returns the committer date of HEAD.
	CommitDate(ctx context.Context, dir string) (time.Time, error)
}
