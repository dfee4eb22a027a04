package version

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a working tree and re-triggers version resolution when
// the repository state changes: new commits and tags (via .git), or working
// tree edits that flip the dirty flag.
type Watcher struct {
	root   string
	logger *slog.Logger
	Ready  chan struct{}

	newWatcher func() (*fsnotify.Watcher, error)
}

// NewWatcher creates a Watcher for the working tree rooted at root.
func NewWatcher(root string, logger *slog.Logger) *Watcher {
	return &Watcher{
		root:       root,
		logger:     logger.With("component", "watcher"),
		Ready:      make(chan struct{}),
		newWatcher: fsnotify.NewWatcher,
	}
}

// Watch starts monitoring the working tree. It calls the provided callback
// whenever a relevant change is detected. It blocks until the context is
// cancelled.
func (w *Watcher) Watch(ctx context.Context, callback func()) error {
	watcher, err := w.newWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := w.addRecursive(watcher, w.root); err != nil {
		return err
	}
	w.addGitDir(watcher)

	w.logger.Info("Watching for changes", "root", w.root)
	if w.Ready != nil {
		close(w.Ready)
	}

	var timer *time.Timer
	const debounceDuration = 200 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-watcher.Errors:
			w.logger.Error("Watcher error", "error", err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.handleEvent(watcher, event) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDuration, callback)
		}
	}
}

// handleEvent processes a single fsnotify event. If it's a new directory,
// it adds it to the watcher. Returns true if the event should trigger a
// re-resolution.
func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) bool {
	relevant := event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
	if !relevant {
		return false
	}

	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() && !w.insideGitDir(event.Name) {
			if err := w.addRecursive(watcher, event.Name); err != nil {
				w.logger.Error("Failed to watch new directory", "path", event.Name, "error", err)
			}
		}
	}

	if w.insideGitDir(event.Name) {
		// Only ref and index movements matter; object writes are noise.
		base := filepath.Base(event.Name)
		dir := filepath.Dir(event.Name)
		return base == "HEAD" || base == "index" || base == "packed-refs" ||
			strings.Contains(dir, filepath.Join(".git", "refs"))
	}

	return true
}

// addRecursive adds the given path and all its subdirectories to the
// watcher, skipping dot directories (.git is handled separately).
func (w *Watcher) addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(filepath.Base(path), ".") && path != root {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}

// addGitDir watches the parts of .git that change on commit, tag, checkout,
// and staging. Failures are tolerated; a bare or partial layout simply
// produces fewer events.
func (w *Watcher) addGitDir(watcher *fsnotify.Watcher) {
	gitDir := filepath.Join(w.root, ".git")
	for _, p := range []string{
		gitDir,
		filepath.Join(gitDir, "refs", "heads"),
		filepath.Join(gitDir, "refs", "tags"),
	} {
		if err := watcher.Add(p); err != nil {
			w.logger.Debug("Not watching git path", "path", p, "error", err)
		}
	}
}

func (w *Watcher) insideGitDir(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	return rel == ".git" || strings.HasPrefix(rel, ".git"+string(filepath.Separator))
}
