package blog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a Library when markdown files in a directory change.
type Watcher struct {
	lib      *Library
	dir      string
	debounce time.Duration
	logger   *zap.Logger
	onReload func(posts int, err error)

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the settle delay.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithOnReload registers a callback run on the watcher goroutine after each
// reload.
func WithOnReload(fn func(posts int, err error)) WatcherOption {
	return func(w *Watcher) { w.onReload = fn }
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) { w.logger = l }
}

// NewWatcher creates a watcher for the OS directory dir backing lib.
func NewWatcher(lib *Library, dir string, opts ...WatcherOption) *Watcher {
	w := &Watcher{lib: lib, dir: dir, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	return w
}

// Start begins watching. It returns once the directory is registered; events
// are handled on a background goroutine until ctx is done or Close is
// called. Calling Start on a running watcher is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.fsw = fsw
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.running = true
	w.logger.Info("watching blog directory", zap.String("dir", w.dir))
	go w.run(ctx, fsw, w.stopCh, w.doneCh)
	return nil
}

// Close stops the watcher and waits for its goroutine. Safe to call more
// than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	stop, done, fsw := w.stopCh, w.doneCh, w.fsw
	w.mu.Unlock()

	close(stop)
	<-done
	return fsw.Close()
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher, stop, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			w.logger.Debug("blog change", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("blog watcher error", zap.Error(err))
		case <-timer.C:
			err := w.lib.Reload()
			n := len(w.lib.Posts())
			if err != nil {
				w.logger.Error("reload blog", zap.Error(err))
			} else {
				w.logger.Info("reloaded blog", zap.Int("posts", n))
			}
			if w.onReload != nil {
				w.onReload(n, err)
			}
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !strings.EqualFold(filepath.Ext(ev.Name), ".md") {
		return false
	}
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
