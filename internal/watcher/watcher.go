// Package watcher watches a drop directory for chat export files and
// reports each one after it has settled: no writes for a quiet period.
// Exports arrive by copy or download, so a file is only safe to import
// once whatever is producing it has stopped touching it.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is the quiet period a file must hold before it is
// considered complete.
const DefaultSettle = 2 * time.Second

// Handler receives the path of a settled export file.
type Handler func(path string)

// ExportWatcher turns raw filesystem events on one directory into
// settled-file notifications. Create and write events start or reset a
// per-file timer; the timer firing means the file held still for the
// whole settle window.
type ExportWatcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	settle   time.Duration
	handlers []Handler
	timers   map[string]*time.Timer
	mu       sync.Mutex
	stopCh   chan struct{}
	stopOnce sync.Once
	stopErr  error
	wg       sync.WaitGroup
}

// NewExportWatcher watches dir, creating it when missing so a fresh
// installation has an inbox from the first run.
func NewExportWatcher(dir string, settle time.Duration) (*ExportWatcher, error) {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create watch directory: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}

	return &ExportWatcher{
		watcher: fsWatcher,
		dir:     dir,
		settle:  settle,
		timers:  make(map[string]*time.Timer),
		stopCh:  make(chan struct{}),
	}, nil
}

// AddHandler registers a handler for settled files. Handlers run on the
// timer goroutine and should hand heavy work off quickly.
func (w *ExportWatcher) AddHandler(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Start begins watching. Files already sitting in the directory get a
// settle timer immediately, so exports dropped while nothing was
// listening still come through.
func (w *ExportWatcher) Start() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("scan %s: %w", w.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if eligible(path) {
			w.scheduleSettle(path)
		}
	}

	w.wg.Add(1)
	go w.watchLoop()

	return nil
}

// Stop cancels pending timers and shuts the watcher down. A timer that
// already fired may still deliver; handlers started before Stop finish
// on their own. Safe to call more than once.
func (w *ExportWatcher) Stop() error {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()

		w.mu.Lock()
		for path, timer := range w.timers {
			timer.Stop()
			delete(w.timers, path)
		}
		w.mu.Unlock()

		w.stopErr = w.watcher.Close()
	})
	return w.stopErr
}

// Pending lists files currently inside their settle window, sorted for
// stable status output.
func (w *ExportWatcher) Pending() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.timers))
	for path := range w.timers {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (w *ExportWatcher) watchLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !eligible(event.Name) {
				continue
			}
			switch {
			case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
				w.scheduleSettle(event.Name)
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				w.cancelSettle(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		}
	}
}

// scheduleSettle starts the file's settle timer, or pushes it out again
// when the file is still being written.
func (w *ExportWatcher) scheduleSettle(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Reset(w.settle)
		return
	}
	w.timers[path] = time.AfterFunc(w.settle, func() {
		w.fire(path)
	})
}

func (w *ExportWatcher) cancelSettle(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
		delete(w.timers, path)
	}
}

// fire delivers a settled file. The file may have vanished between the
// last event and the timer; deliver only what still exists.
func (w *ExportWatcher) fire(path string) {
	select {
	case <-w.stopCh:
		return
	default:
	}

	w.mu.Lock()
	delete(w.timers, path)
	handlers := make([]Handler, len(w.handlers))
	copy(handlers, w.handlers)
	w.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	for _, h := range handlers {
		h(path)
	}
}

// eligible filters events down to plausible export files: .txt or .json,
// not hidden. Content sniffing is the importer's job.
func eligible(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".txt", ".json":
		return true
	}
	return false
}
