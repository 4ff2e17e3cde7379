package rules

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces the burst of filesystem events an editor
// save produces into one change notification.
const DefaultDebounce = 100 * time.Millisecond

// Watcher keeps a rule file's hooks live. A filesystem change only
// marks the file dirty and notifies OnChange handlers; the watcher
// goroutine never installs or reverts hooks itself. Hosts are not
// synchronized, so all reloading happens inside Reload, which must be
// called from the goroutine that owns the hooked hosts.
type Watcher struct {
	mgr      *Manager
	path     string
	log      *zap.Logger
	fsw      *fsnotify.Watcher
	debounce time.Duration

	mu       sync.Mutex
	applied  *Applied
	lastSet  *Set
	handlers []func(path string)
	dirty    bool
	closed   bool

	done chan struct{}
	wg   sync.WaitGroup
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the change notification debounce interval.
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watch parses path, applies it through mgr, and starts watching for
// changes. The initial load must succeed. Later changes are only
// signaled; call Reload to pick them up.
func Watch(mgr *Manager, path string, opts ...WatchOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	set, err := ParseFile(abs)
	if err != nil {
		return nil, err
	}
	applied, err := mgr.Apply(set)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		applied.Revert()
		return nil, err
	}
	// Watch the directory: editors commonly replace the file on save,
	// which drops a watch registered on the file itself.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		applied.Revert()
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		mgr:      mgr,
		path:     abs,
		log:      mgr.log,
		fsw:      fsw,
		debounce: DefaultDebounce,
		applied:  applied,
		lastSet:  set,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// OnChange registers a handler for rule file changes. The handler runs
// on the watcher goroutine and must not touch the hooked hosts; treat
// it as a signal to call Reload from the goroutine that owns them.
func (w *Watcher) OnChange(fn func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, fn)
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != filepath.Base(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("rules watch error", zap.Error(err))

		case <-timerC:
			timer = nil
			timerC = nil
			w.notify()
		}
	}
}

// notify marks the file dirty and fans the change out to the registered
// handlers. It never touches host slot storage.
func (w *Watcher) notify() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.dirty = true
	handlers := make([]func(string), len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	w.log.Info("rules changed", zap.String("path", w.path))
	for _, fn := range handlers {
		w.emit(fn)
	}
}

// emit calls a handler with panic recovery to keep the watcher
// goroutine alive.
func (w *Watcher) emit(fn func(string)) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Warn("rules change handler panicked", zap.Any("panic", r))
		}
	}()
	fn(w.path)
}

// Dirty reports whether the file changed since the last Reload.
func (w *Watcher) Dirty() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirty
}

// Reload re-parses the file and swaps the applied batch. It must run on
// the goroutine that owns the hooked hosts. A file that fails to parse
// keeps the previous batch in effect; a set that fails to apply is
// rolled back and the previous set re-applied. Either failure is
// returned to the caller.
func (w *Watcher) Reload() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.dirty = false
	w.mu.Unlock()

	set, err := ParseFile(w.path)
	if err != nil {
		w.log.Warn("rules reload failed, keeping previous set",
			zap.String("path", w.path), zap.Error(err))
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	// Revert first so the fresh installs capture the bare originals
	// rather than the outgoing wrappers.
	if w.applied != nil {
		w.applied.Revert()
	}

	applied, applyErr := w.mgr.Apply(set)
	if applyErr != nil {
		w.log.Error("rules apply failed, restoring previous set", zap.Error(applyErr))
		restored, err := w.mgr.Apply(w.lastSet)
		if err != nil {
			w.log.Error("previous rule set could not be restored", zap.Error(err))
			w.applied = nil
			return applyErr
		}
		w.applied = restored
		return applyErr
	}

	w.applied = applied
	w.lastSet = set
	w.log.Info("rules reloaded",
		zap.String("path", w.path), zap.Int("hooks", applied.Len()))
	return nil
}

// Applied returns the currently installed batch, or nil.
func (w *Watcher) Applied() *Applied {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.applied
}

// Close stops watching and reverts the current batch. Like Reload it
// must run on the goroutine that owns the hooked hosts. It is
// idempotent.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.applied != nil {
		w.applied.Revert()
		w.applied = nil
	}
	w.mu.Unlock()
	return err
}
