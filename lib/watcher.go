package lib

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-tokenizes source files whenever they are written.
type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions []string
	debounce   time.Duration
	onChange   func(SourceFile)
	onError    func(error)

	mu       sync.Mutex
	pending  map[string]*time.Timer
	explicit map[string]bool
	stopped  bool
	inflight sync.WaitGroup
	emitMu   sync.Mutex
}

func NewWatcher(extensions []string, debounce time.Duration, onChange func(SourceFile), onError func(error)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	return &Watcher{
		watcher:    fsWatcher,
		extensions: extensions,
		debounce:   debounce,
		onChange:   onChange,
		onError:    onError,
		pending:    map[string]*time.Timer{},
		explicit:   map[string]bool{},
	}, nil
}

// Add watches a directory, or a single file through its directory. A file
// added by name is reported whatever its extension; its siblings only when
// their extension matches.
func (w *Watcher) Add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	if !info.IsDir() {
		w.mu.Lock()
		w.explicit[filepath.Clean(path)] = true
		w.mu.Unlock()
		// watch the parent so editors that replace the file are still seen
		path = filepath.Dir(path)
	}
	return w.watcher.Add(path)
}

// Run processes events until ctx is cancelled. It returns only after every
// change callback already started has finished.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	defer w.stopPending()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.wanted(event.Name) {
				continue
			}
			w.schedule(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.reportError(err)
		}
	}
}

// schedule re-tokenizes path once no further event for it has arrived
// within the debounce window.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		if w.stopped {
			w.mu.Unlock()
			return
		}
		delete(w.pending, path)
		w.inflight.Add(1)
		w.mu.Unlock()

		defer w.inflight.Done()
		w.emit(path)
	})
}

func (w *Watcher) wanted(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.explicit[filepath.Clean(path)] || hasExtension(path, w.extensions)
}

func (w *Watcher) emit(path string) {
	f, err := ReadSourceFile(path)
	if err != nil {
		w.reportError(err)
		return
	}
	w.emitMu.Lock()
	defer w.emitMu.Unlock()
	w.onChange(f)
}

func (w *Watcher) reportError(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}

// stopPending cancels queued re-tokenizations and waits for running ones.
func (w *Watcher) stopPending() {
	w.mu.Lock()
	w.stopped = true
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()
	w.inflight.Wait()
}
