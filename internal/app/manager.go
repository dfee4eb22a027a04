package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/andyballingall/gitver/internal/config"
	"github.com/andyballingall/gitver/internal/repo"
	"github.com/andyballingall/gitver/internal/report"
	"github.com/andyballingall/gitver/internal/version"
)

// Manager defines the business logic for version operations.
type Manager interface {
	Resolve(ctx context.Context, dir string) (*version.Info, error)
	Report(ctx context.Context, dir, output string, verbose bool) error
	WriteVersionFiles(ctx context.Context, dir string) error
	WatchVersion(ctx context.Context, dir, output string, verbose bool, readyChan chan<- struct{}) error
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner Manager
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// HasInner returns true if the inner manager has been set.
// This is used by PersistentPreRunE to skip initialization if already configured (e.g., in tests).
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) Resolve(ctx context.Context, dir string) (*version.Info, error) {
	return l.check().Resolve(ctx, dir)
}

func (l *LazyManager) Report(ctx context.Context, dir, output string, verbose bool) error {
	return l.check().Report(ctx, dir, output, verbose)
}

func (l *LazyManager) WriteVersionFiles(ctx context.Context, dir string) error {
	return l.check().WriteVersionFiles(ctx, dir)
}

func (l *LazyManager) WatchVersion(ctx context.Context, dir, output string, verbose bool,
	readyChan chan<- struct{},
) error {
	return l.check().WatchVersion(ctx, dir, output, verbose, readyChan)
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager is the concrete implementation of the Manager interface.
type CLIManager struct {
	logger         *slog.Logger
	cfg            *config.Config
	gitter         repo.Gitter
	resolver       *version.Resolver
	cache          *version.Cache
	useColour      bool
	reporterWriter io.Writer
}

func NewCLIManager(
	l *slog.Logger,
	cfg *config.Config,
	g repo.Gitter,
	r *version.Resolver,
	c *version.Cache,
) *CLIManager {
	return &CLIManager{
		logger:         l,
		cfg:            cfg,
		gitter:         g,
		resolver:       r,
		cache:          c,
		reporterWriter: os.Stdout,
	}
}

// Resolve produces the version for the working tree containing dir. Outside
// a repository it falls back to the JSON sidecar written by a previous
// 'gitver write', so exported source archives still resolve; without one
// the NotARepositoryError propagates.
func (m *CLIManager) Resolve(ctx context.Context, dir string) (*version.Info, error) {
	info, err := m.resolver.Resolve(ctx, dir)
	if err == nil {
		return info, nil
	}

	var notRepo *repo.NotARepositoryError
	if !errors.As(err, &notRepo) {
		return nil, err
	}
	if m.cfg.Write == nil || m.cfg.Write.JSONPath == "" {
		return nil, err
	}

	cached, cErr := version.ReadCached(filepath.Join(dir, m.cfg.Write.JSONPath))
	if cErr != nil {
		m.logger.Debug("no usable cached version", "error", cErr)
		return nil, err
	}
	m.logger.Warn("not a git repository, using cached version", "path", dir, "version", cached.Version)
	return cached, nil
}

func (m *CLIManager) Report(ctx context.Context, dir, output string, verbose bool) error {
	m.logger.Debug("reporting version", "dir", dir, "output", output, "verbose", verbose)

	info, err := m.Resolve(ctx, dir)
	if err != nil {
		return err
	}

	return m.reporter(output, verbose).Write(m.reporterWriter, info)
}

func (m *CLIManager) reporter(output string, verbose bool) report.Reporter {
	switch output {
	case "json":
		return &report.JSONReporter{}
	case "table":
		return &report.TableReporter{UseColour: m.useColour}
	default:
		return &report.TextReporter{Verbose: verbose, UseColour: m.useColour}
	}
}

// WriteVersionFiles renders the resolved version into the configured write
// targets: a generated Go source file and/or a JSON sidecar.
func (m *CLIManager) WriteVersionFiles(ctx context.Context, dir string) error {
	m.logger.Debug("writing version files", "dir", dir)

	if m.cfg.Write == nil {
		return &config.MissingPropertyError{Property: "write"}
	}

	info, err := m.Resolve(ctx, dir)
	if err != nil {
		return err
	}

	if m.cfg.Write.Path != "" {
		target := filepath.Join(dir, m.cfg.Write.Path)
		content := version.GoFileContent(info, m.cfg.Write.Package)
		if wErr := version.WriteFile(target, content); wErr != nil {
			return fmt.Errorf("failed to write %s: %w", target, wErr)
		}
		fmt.Fprintf(m.reporterWriter, "Wrote %s\n", target)
	}

	if m.cfg.Write.JSONPath != "" {
		target := filepath.Join(dir, m.cfg.Write.JSONPath)
		content, cErr := version.JSONContent(info)
		if cErr != nil {
			return cErr
		}
		if wErr := version.WriteFile(target, content); wErr != nil {
			return fmt.Errorf("failed to write %s: %w", target, wErr)
		}
		fmt.Fprintf(m.reporterWriter, "Wrote %s\n", target)
	}

	return nil
}

// WatchVersion re-resolves and re-reports the version whenever the
// repository changes. If you want to know when the watcher is ready to
// start listening to changes, pass a non-nil readyChan to be notified.
func (m *CLIManager) WatchVersion(ctx context.Context, dir, output string, verbose bool,
	readyChan chan<- struct{},
) error {
	m.logger.Debug("watching version", "dir", dir, "output", output)

	root, err := m.gitter.TopLevel(ctx, dir)
	if err != nil {
		return err
	}

	if rErr := m.Report(ctx, root, output, verbose); rErr != nil {
		return rErr
	}

	watcher := version.NewWatcher(root, m.logger)

	callback := func() {
		m.cache.Invalidate(root)
		if cErr := m.Report(ctx, root, output, verbose); cErr != nil {
			m.logger.Error("Version resolution failed", "error", cErr)
		}
	}

	// Forward watcher Ready signal if caller wants notification
	if readyChan != nil {
		go func() {
			<-watcher.Ready
			readyChan <- struct{}{}
		}()
	}

	return watcher.Watch(ctx, callback)
}
