package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher rescans a Registry whenever something changes below its root,
// e.g. an installer finishing a download into a new profile directory.
type Watcher struct {
	registry *Registry
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration
	onChange func([]Profile)

	mu    sync.Mutex
	timer *time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher; onChange receives each new snapshot.
func NewWatcher(reg *Registry, logger *slog.Logger, onChange func([]Profile)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		registry: reg,
		watcher:  fw,
		logger:   logger,
		debounce: 500 * time.Millisecond,
		onChange: onChange,
	}, nil
}

// SetDebounce overrides the quiet period before a rescan. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

// Start begins watching. If the root does not exist yet its parent is
// watched until it appears.
func (w *Watcher) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)

	root := w.registry.Root()
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		parent := filepath.Dir(root)
		if err := w.watcher.Add(parent); err != nil {
			return fmt.Errorf("watch %s: %w", parent, err)
		}
		w.logger.Info("scan root missing, watching parent", "dir", parent)
	} else if err := w.addTree(root); err != nil {
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop()
	}()
	return nil
}

// Stop shuts the watcher down and waits for the event loop to exit.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	err := w.watcher.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}

// addTree watches dir and every directory below it. dir itself may be a
// symlink; the walk runs over its target, but watches are registered under
// dir so event names stay below the configured root.
func (w *Watcher) addTree(dir string) error {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}
	return filepath.WalkDir(real, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(real, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dir, rel)
		if err := w.watcher.Add(target); err != nil {
			return fmt.Errorf("watch %s: %w", target, err)
		}
		return nil
	})
}

func (w *Watcher) underRoot(path string) bool {
	root := w.registry.Root()
	return path == root || strings.HasPrefix(path, root+string(filepath.Separator))
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.underRoot(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if w.isWatchableDir(event.Name) {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("cannot watch new directory", "dir", event.Name, "error", err)
					}
				}
			}
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// isWatchableDir reports whether a created path needs watching. Symlinked
// directories are skipped like in Discover, except for the root itself.
func (w *Watcher) isWatchableDir(path string) bool {
	stat := os.Lstat
	if path == w.registry.Root() {
		stat = os.Stat
	}
	fi, err := stat(path)
	return err == nil && fi.IsDir()
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.rescan)
}

// rescan runs under mu so Stop cannot return while a callback is in flight.
func (w *Watcher) rescan() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ctx.Err() != nil {
		return
	}
	if err := w.registry.Refresh(); err != nil {
		w.logger.Warn("rescan failed, keeping previous profiles", "error", err)
		return
	}
	if w.onChange != nil {
		w.onChange(w.registry.List())
	}
}
