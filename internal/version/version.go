// Package version resolves a semantic version from git repository state:
// the nearest reachable version tag, the number of commits since it, the
// commit hash, and whether the working tree has uncommitted changes.
package version

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/andyballingall/gitver/internal/config"
	"github.com/andyballingall/gitver/internal/repo"
	"github.com/andyballingall/gitver/internal/semver"
)

// describeRegex matches the long form of git describe: TAG-DISTANCE-gSHA.
var describeRegex = regexp.MustCompile(`^(?P<tag>.+)-(?P<distance>\d+)-g(?P<sha>[0-9a-f]+)$`)

// Info is the resolved version of a working tree. It is constructed once
// per resolution and immutable thereafter.
type Info struct {
	// Tag is the nearest reachable version tag, including its prefix.
	// Empty when no version tag is reachable from HEAD.
	Tag       string
	TagPrefix string

	// Base is the version parsed from Tag, or the configured fallback.
	Base semver.Version

	// Distance is the number of commits between Tag and HEAD. When Tag is
	// empty it counts all commits reachable from HEAD.
	Distance int

	SHA       string
	SHAAbbrev string
	Branch    string
	Date      time.Time
	Dirty     bool

	// Version is the rendering with the configured format.
	Version string
}

// Tagged returns true if the version derives from a reachable version tag.
func (i *Info) Tagged() bool {
	return i.Tag != ""
}

func (i *Info) String() string {
	return i.Version
}

// Resolver derives an Info from a working tree by querying git. All queries
// are read-only; the resolver never mutates the repository. Results are
// memoized in the injected Cache keyed by working tree root, so repeated
// resolutions within one process reuse the first answer.
type Resolver struct {
	gitter repo.Gitter
	cfg    *config.Config
	logger *slog.Logger
	cache  *Cache
}

// NewResolver creates a Resolver. The cache must not be nil; sharing one
// cache across resolvers shares their memoized results.
func NewResolver(gitter repo.Gitter, cfg *config.Config, logger *slog.Logger, cache *Cache) *Resolver {
	return &Resolver{
		gitter: gitter,
		cfg:    cfg,
		logger: logger.With("component", "resolver"),
		cache:  cache,
	}
}

// Resolve produces the version Info for the working tree containing dir.
//
// Only a NotARepositoryError aborts resolution. Every other failure mode
// (no tags, shallow history, a hung git query) degrades to the configured
// fallback version with a warning, since version resolution must never
// block an otherwise-valid build.
func (r *Resolver) Resolve(ctx context.Context, dir string) (*Info, error) {
	root, err := r.gitter.TopLevel(ctx, dir)
	if err != nil {
		var timeoutErr *repo.QueryTimeoutError
		if errors.As(err, &timeoutErr) {
			r.logger.Warn("git query timed out, using fallback version", "error", err)
			return r.fallbackInfo(false), nil
		}
		return nil, err
	}

	return r.cache.Do(root, func() (*Info, error) {
		info, rErr := r.resolve(ctx, root)
		var timeoutErr *repo.QueryTimeoutError
		if errors.As(rErr, &timeoutErr) {
			r.logger.Warn("git query timed out, using fallback version", "error", rErr)
			return r.fallbackInfo(false), nil
		}
		return info, rErr
	})
}

func (r *Resolver) resolve(ctx context.Context, root string) (*Info, error) {
	sha, err := r.gitter.Head(ctx, root)
	if err != nil {
		var noCommits *repo.NoCommitsError
		if !errors.As(err, &noCommits) {
			return nil, err
		}
		// Repository with no commits: distance is conceptually undefined,
		// treated as 0. Dirtiness is determined independently.
		dirty, dErr := r.gitter.IsDirty(ctx, root, true)
		if dErr != nil {
			return nil, dErr
		}
		info := &Info{
			TagPrefix: r.cfg.TagPrefix,
			Base:      r.cfg.Fallback,
			Dirty:     dirty,
		}
		info.Version = info.Render(r.cfg.Format, r.cfg.MarksDirty())
		return info, nil
	}

	dirty, err := r.gitter.IsDirty(ctx, root, false)
	if err != nil {
		return nil, err
	}

	describe, err := r.gitter.Describe(ctx, root, r.cfg.TagPrefix+"*")
	if err != nil {
		return nil, err
	}

	info := &Info{
		TagPrefix: r.cfg.TagPrefix,
		SHA:       sha,
		Dirty:     dirty,
	}

	if m := describeRegex.FindStringSubmatch(describe); m != nil {
		info.Tag = m[1]
		// Matched \d+, cannot fail
		info.Distance, _ = strconv.Atoi(m[2])
		info.SHAAbbrev = m[3]

		base, pErr := semver.Parse(strings.TrimPrefix(info.Tag, r.cfg.TagPrefix))
		if pErr != nil {
			r.logger.Warn("nearest tag is not a semantic version, using fallback base",
				"tag", info.Tag, "error", pErr)
			info.Tag = ""
			info.Base = r.cfg.Fallback
		} else {
			info.Base = base
		}
	} else if describe != "" && !strings.Contains(describe, "-") {
		// Bare abbreviated hash: no tag matched the pattern anywhere in
		// history. All reachable commits count as distance.
		info.SHAAbbrev = describe
		info.Base = r.cfg.Fallback

		count, cErr := r.gitter.CommitCount(ctx, root)
		if cErr != nil {
			return nil, cErr
		}
		info.Distance = count
		r.logger.Warn("version resolution degraded", "error", &NoTagsFoundError{Path: root})
	} else {
		return nil, &UnexpectedDescribeError{Output: describe}
	}

	// Branch and commit date are informational; their failure never blocks
	// resolution.
	branch, bErr := r.gitter.Branch(ctx, root)
	if bErr != nil {
		r.logger.Warn("could not determine branch", "error", bErr)
	}
	info.Branch = branch

	date, dErr := r.gitter.CommitDate(ctx, root)
	if dErr != nil {
		r.logger.Warn("could not determine commit date", "error", dErr)
	}
	info.Date = date

	info.Version = info.Render(r.cfg.Format, r.cfg.MarksDirty())
	return info, nil
}

// fallbackInfo is the sentinel result used when git cannot be queried in
// time. It renders to the bare fallback version.
func (r *Resolver) fallbackInfo(dirty bool) *Info {
	info := &Info{
		TagPrefix: r.cfg.TagPrefix,
		Base:      r.cfg.Fallback,
		Dirty:     dirty,
	}
	info.Version = info.Render(r.cfg.Format, r.cfg.MarksDirty())
	return info
}
