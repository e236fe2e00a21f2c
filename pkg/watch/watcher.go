// Package watch keeps a component tree current by reparsing files as they
// change on disk.
package watch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/comptree/pkg/parser"
	"github.com/gnana997/comptree/pkg/tree"
)

// ErrStopped is returned by Start after Stop.
var ErrStopped = errors.New("watcher already stopped")

// Target is the tree being kept current. *tree.Session satisfies it.
type Target interface {
	Reparse(filePath string) (int, error)
	Traverse(visit tree.Visitor)
}

// Event describes one debounced reparse.
type Event struct {
	// Path is the file that changed.
	Path string
	Op   fsnotify.Op
	// Reparsed lists the files whose nodes were rebuilt. Files that are not
	// in the tree are left out.
	Reparsed []string
	Err      error
}

// Options configures a Watcher.
type Options struct {
	// DebounceMs groups rapid changes to one file. Default: 200ms.
	DebounceMs int

	// IgnorePatterns are doublestar globs matched against paths relative to
	// the watched root, e.g. "**/*.test.tsx" or "storybook/**".
	IgnorePatterns []string

	// OnChange is called after every debounced reparse, from a timer
	// goroutine.
	OnChange func(Event)
}

// DefaultIgnorePatterns skips dependency, VCS and build output directories
// and editor temporaries.
func DefaultIgnorePatterns() []string {
	return []string{
		"**/node_modules/**",
		"**/.git/**",
		"**/dist/**",
		"**/build/**",
		"**/.next/**",
		"**/*.swp",
		"**/*~",
	}
}

// Watcher reparses tree nodes when their files change.
//
// Usage:
//
//	w, err := watch.New(session, watch.Options{}, logger)
//	if err != nil {
//	    return err
//	}
//	if err := w.Start(projectRoot); err != nil {
//	    return err
//	}
//	defer w.Stop()
type Watcher struct {
	watcher *fsnotify.Watcher
	target  Target
	options Options
	logger  *slog.Logger
	root    string

	// Debouncing
	debounceTimers map[string]*time.Timer
	debounceOps    map[string]fsnotify.Op
	debounceMu     sync.Mutex

	// Lifecycle
	stopChan chan struct{}
	started  bool
	stopped  bool
	mu       sync.Mutex
}

// New validates the ignore patterns and creates a Watcher.
func New(target Target, options Options, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if options.DebounceMs <= 0 {
		options.DebounceMs = 200
	}
	if options.IgnorePatterns == nil {
		options.IgnorePatterns = DefaultIgnorePatterns()
	}
	for _, pattern := range options.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern: %s", pattern)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:        watcher,
		target:         target,
		options:        options,
		logger:         logger,
		debounceTimers: make(map[string]*time.Timer),
		debounceOps:    make(map[string]fsnotify.Op),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start watches rootPath and every non-ignored directory below it, then
// processes events in a background goroutine.
func (w *Watcher) Start(rootPath string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return ErrStopped
	}
	if w.started {
		return fmt.Errorf("watcher already started on %s", w.root)
	}

	root, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("failed to resolve root path: %w", err)
	}
	w.root = root

	if err := w.addTree(root); err != nil {
		return err
	}

	w.started = true
	w.logger.Info("file watcher started", "root", root)

	go w.eventLoop()
	return nil
}

// addTree adds dir and its non-ignored subdirectories.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Stop stops the watcher. Pending debounced reparses are cancelled.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = make(map[string]*time.Timer)
	w.debounceOps = make(map[string]fsnotify.Op)
	w.debounceMu.Unlock()

	err := w.watcher.Close()
	w.logger.Info("file watcher stopped")
	return err
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if w.shouldIgnore(path) {
		return
	}

	if event.Has(fsnotify.Create) && isDir(path) {
		if err := w.addTree(path); err != nil {
			w.logger.Warn("failed to watch new directory", "path", path, "error", err)
		}
		return
	}

	if !parser.IsSourceFile(path) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	w.logger.Debug("file event", "op", event.Op.String(), "file", path)
	w.debounceReparse(path, event.Op)
}

// debounceReparse schedules a reparse after the debounce delay. Repeated
// events for the same file restart the delay and accumulate their ops.
func (w *Watcher) debounceReparse(path string, op fsnotify.Op) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.debounceTimers[path]; exists {
		timer.Stop()
	}
	w.debounceOps[path] |= op

	w.debounceTimers[path] = time.AfterFunc(
		time.Duration(w.options.DebounceMs)*time.Millisecond,
		func() {
			w.debounceMu.Lock()
			ops := w.debounceOps[path]
			delete(w.debounceTimers, path)
			delete(w.debounceOps, path)
			w.debounceMu.Unlock()

			w.reparse(path, ops)
		},
	)
}

// reparse rebuilds the nodes for path. A created file may also satisfy an
// import that failed to resolve earlier; the files importing it are
// reparsed so the import picks up the new extension.
func (w *Watcher) reparse(path string, op fsnotify.Op) {
	w.mu.Lock()
	stopped := w.stopped
	w.mu.Unlock()
	if stopped {
		return
	}

	files := []string{path}
	if op.Has(fsnotify.Create) {
		files = append(files, w.importersOfUnresolved(path)...)
	}

	event := Event{Path: path, Op: op}
	for _, file := range files {
		n, err := w.target.Reparse(file)
		if err != nil {
			w.logger.Warn("failed to reparse file", "file", file, "error", err)
			event.Err = errors.Join(event.Err, err)
			continue
		}
		if n > 0 {
			event.Reparsed = append(event.Reparsed, file)
		}
	}

	w.logger.Debug("file reparsed", "file", path, "reparsed", len(event.Reparsed))

	if w.options.OnChange != nil {
		w.options.OnChange(event)
	}
}

// importersOfUnresolved returns the parent files of nodes whose path is
// path without its extension.
func (w *Watcher) importersOfUnresolved(path string) []string {
	bare := strings.TrimSuffix(path, filepath.Ext(path))

	var parents []string
	seen := map[string]bool{path: true}
	w.target.Traverse(func(node *tree.Node) {
		if node.FilePath != bare || len(node.ParentList) == 0 {
			return
		}
		parent := node.ParentList[0]
		if !seen[parent] {
			seen[parent] = true
			parents = append(parents, parent)
		}
	})
	return parents
}

// shouldIgnore matches path, relative to the watched root, against the
// ignore patterns.
func (w *Watcher) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return true
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range w.options.IgnorePatterns {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// GetStats returns watcher statistics.
func (w *Watcher) GetStats() Stats {
	w.debounceMu.Lock()
	pending := len(w.debounceTimers)
	w.debounceMu.Unlock()

	w.mu.Lock()
	running := w.started && !w.stopped
	w.mu.Unlock()

	return Stats{
		PendingReparses: pending,
		IsRunning:       running,
	}
}

// Stats contains watcher statistics.
type Stats struct {
	PendingReparses int
	IsRunning       bool
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
