// Package services holds the background helpers of the stack view.
package services

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RefWatchDebounce is the minimum delay between two reloads triggered by the
// watcher.
const RefWatchDebounce = 600 * time.Millisecond

// GitDirResolver locates the git directories of a repository.
type GitDirResolver interface {
	GitDir(ctx context.Context) (string, error)
	CommonDir(ctx context.Context) (string, error)
}

// RefWatcher signals when HEAD, the reflog or any ref of a repository
// changes. Several filesystem events collapse into one pending signal.
type RefWatcher struct {
	git  GitDirResolver
	logf func(string, ...any)

	mu         sync.Mutex
	started    bool
	waiting    bool
	lastReload time.Time
	roots      []string
	paths      map[string]struct{}
	watcher    *fsnotify.Watcher
	events     chan struct{}
	done       chan struct{}
}

// NewRefWatcher creates a watcher for the repository git resolves.
func NewRefWatcher(git GitDirResolver, logf func(string, ...any)) *RefWatcher {
	return &RefWatcher{git: git, logf: logf}
}

// Start begins watching. It reports false when the git directories cannot
// be resolved; the caller then simply runs without auto-refresh.
func (w *RefWatcher) Start(ctx context.Context) (bool, error) {
	if w.started {
		return true, nil
	}
	gitDir, commonDir, ok := w.resolve(ctx)
	if !ok {
		w.debugf("watch: unable to resolve git directories")
		return false, nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}

	w.started = true
	w.watcher = watcher
	w.events = make(chan struct{}, 1)
	w.done = make(chan struct{})
	w.paths = make(map[string]struct{})
	w.roots = []string{
		filepath.Join(commonDir, "refs"),
		filepath.Join(commonDir, "logs"),
	}

	// HEAD and packed-refs are files, so their directories are watched.
	w.addWatchDir(gitDir)
	w.addWatchDir(commonDir)
	for _, root := range w.roots {
		w.addWatchTree(root)
	}
	w.debugf("watch: %d directories under %s", len(w.paths), commonDir)

	go w.run()
	return true, nil
}

// Started reports whether the watcher is running.
func (w *RefWatcher) Started() bool {
	return w.started
}

// Stop stops the watcher. Pending receivers of NextEvent are released.
func (w *RefWatcher) Stop() {
	if !w.started {
		return
	}
	w.started = false
	close(w.done)
	if w.watcher != nil {
		_ = w.watcher.Close()
	}
}

// NextEvent returns the signal channel unless a receiver is already waiting
// on it, in which case it returns nil.
func (w *RefWatcher) NextEvent() <-chan struct{} {
	if w.events == nil || w.waiting {
		return nil
	}
	w.waiting = true
	return w.events
}

// Done is closed when the watcher stops.
func (w *RefWatcher) Done() <-chan struct{} {
	return w.done
}

// ResetWaiting must be called once a signal from NextEvent was handled.
func (w *RefWatcher) ResetWaiting() {
	w.waiting = false
}

// ShouldReload applies the debounce window and records now as the last
// reload when it lets the reload through.
func (w *RefWatcher) ShouldReload(now time.Time) bool {
	if !w.lastReload.IsZero() && now.Sub(w.lastReload) < RefWatchDebounce {
		return false
	}
	w.lastReload = now
	return true
}

// Signal records watcher activity. It never blocks.
func (w *RefWatcher) Signal() {
	select {
	case <-w.done:
		return
	default:
	}
	select {
	case w.events <- struct{}{}:
	default:
	}
}

// IsUnderRoot reports whether path lies in one of the watched trees.
func (w *RefWatcher) IsUnderRoot(path string) bool {
	if path == "" {
		return false
	}
	for _, root := range w.roots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *RefWatcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			if event.Op&fsnotify.Create != 0 && w.IsUnderRoot(event.Name) {
				// New ref namespaces show up as directories.
				w.addWatchDir(event.Name)
			}
			w.debugf("watch: %s %s", event.Op, event.Name)
			w.Signal()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.debugf("watch: error: %v", err)
		}
	}
}

// relevant filters out lock files and metadata-only changes.
func relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return !strings.HasSuffix(event.Name, ".lock")
}

func (w *RefWatcher) addWatchDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.paths[path]; ok {
		return
	}
	if err := w.watcher.Add(path); err != nil {
		w.debugf("watch: add %s: %v", path, err)
		return
	}
	w.paths[path] = struct{}{}
}

func (w *RefWatcher) addWatchTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		w.addWatchDir(path)
		return nil
	})
}

func (w *RefWatcher) resolve(ctx context.Context) (gitDir, commonDir string, ok bool) {
	if w.git == nil {
		return "", "", false
	}
	gitDir, err := w.git.GitDir(ctx)
	if err != nil || gitDir == "" {
		return "", "", false
	}
	commonDir, err = w.git.CommonDir(ctx)
	if err != nil || commonDir == "" {
		commonDir = gitDir
	}
	return gitDir, commonDir, true
}

func (w *RefWatcher) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}
