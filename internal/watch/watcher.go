// Package watch reruns a callback when union sources change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long the watcher waits for a burst of events to
// settle before calling back.
const DefaultDebounce = 200 * time.Millisecond

// DefaultExclude skips generated output, tests and hidden or vendored trees.
var DefaultExclude = []string{"*_enum.go", "*.unformatted.go", "*_test.go", ".*", "vendor", "testdata"}

// ErrClosed is returned by Start when the underlying watcher is closed.
var ErrClosed = errors.New("watcher closed")

// Watcher watches directories and calls back once per settled burst of
// events on matching files.
type Watcher struct {
	watcher  *fsnotify.Watcher
	patterns []string
	exclude  []string
	debounce time.Duration
	onChange func(paths []string)
	logger   zerolog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

// Options configures a Watcher.
type Options struct {
	// Patterns are base-name globs; "**/*.ext" matches the extension at any
	// depth.
	Patterns []string
	// Exclude base-name globs take precedence over Patterns. Excluded
	// directories are not descended into.
	Exclude []string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	Logger   zerolog.Logger
}

// New creates a watcher. onChange receives the sorted set of changed paths.
func New(opts Options, onChange func(paths []string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	exclude := opts.Exclude
	if exclude == nil {
		exclude = DefaultExclude
	}

	return &Watcher{
		watcher:  fw,
		patterns: opts.Patterns,
		exclude:  exclude,
		debounce: debounce,
		onChange: onChange,
		logger:   opts.Logger,
		pending:  make(map[string]struct{}),
	}, nil
}

// AddDirectory recursively adds dir and its subdirectories.
func (w *Watcher) AddDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != dir && w.excluded(filepath.Base(path)) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}

		return nil
	})
}

// AddFile watches a single file through its directory.
func (w *Watcher) AddFile(path string) error {
	dir := filepath.Dir(path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	w.patterns = append(w.patterns, filepath.Base(path))

	return nil
}

// Start processes events until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	defer w.stopTimer()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return ErrClosed
			}

			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return ErrClosed
			}

			w.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.AddDirectory(event.Name); err != nil {
				w.logger.Warn().Err(err).Str("dir", event.Name).Msg("cannot watch new directory")
			}

			return
		}
	}

	if event.Op == fsnotify.Chmod || !w.shouldWatch(event.Name) {
		return
	}

	w.logger.Debug().Str("path", event.Name).Stringer("op", event.Op).Msg("change")

	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[event.Name] = struct{}{}

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))

	for p := range w.pending {
		paths = append(paths, p)
	}

	w.pending = make(map[string]struct{})
	w.timer = nil
	w.mu.Unlock()

	if len(paths) == 0 {
		return
	}

	slices.Sort(paths)
	w.onChange(paths)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func (w *Watcher) excluded(base string) bool {
	for _, pattern := range w.exclude {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

// shouldWatch reports whether a change to path triggers a callback.
func (w *Watcher) shouldWatch(path string) bool {
	base := filepath.Base(path)

	if w.excluded(base) {
		return false
	}

	for _, pattern := range w.patterns {
		if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
			pattern = rest
		}

		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
