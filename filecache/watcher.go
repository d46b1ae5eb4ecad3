package filecache

import (
	"log"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler owns an fsnotify watcher and coalesces its events between
// render ticks: arbitrarily many filesystem events between two calls to
// HandleFileChanges count as "something changed".
type ChangeHandler struct {
	watcher *fsnotify.Watcher

	mu       sync.Mutex
	watched  map[string]bool
	pending  map[string]bool
	onChange func(paths []string)
}

// NewChangeHandler creates a ChangeHandler with its own fsnotify watcher.
func NewChangeHandler() (*ChangeHandler, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	h := &ChangeHandler{
		watcher: w,
		watched: make(map[string]bool),
		pending: make(map[string]bool),
	}
	go h.run()
	return h, nil
}

func (h *ChangeHandler) run() {
	for {
		select {
		case ev, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			h.mu.Lock()
			h.pending[ev.Name] = true
			h.mu.Unlock()
		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("filecache: watcher error: %v", err)
		}
	}
}

// HandleFileChanges returns the coalesced list of changed paths since the
// last call, or nil if nothing fired.
func (h *ChangeHandler) HandleFileChanges() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.pending) == 0 {
		return nil
	}
	paths := make([]string, 0, len(h.pending))
	for p := range h.pending {
		paths = append(paths, p)
	}
	h.pending = make(map[string]bool)
	return paths
}

// UpdateWatchers diff-applies the watch list to cover exactly accessedPaths,
// called once per load cycle after the set of files actually read is known.
func (h *ChangeHandler) UpdateWatchers(accessedPaths []string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	want := make(map[string]bool, len(accessedPaths))
	for _, p := range accessedPaths {
		want[p] = true
	}

	for p := range h.watched {
		if !want[p] {
			_ = h.watcher.Remove(p)
			delete(h.watched, p)
		}
	}
	for p := range want {
		if !h.watched[p] {
			if err := h.watcher.Add(p); err != nil {
				log.Printf("filecache: watch %s: %v", p, err)
				continue
			}
			h.watched[p] = true
		}
	}
}

// IsEmpty reports whether nothing is currently registered with the watcher —
// true before the first successful UpdateWatchers call (or while every
// accessed path keeps failing to register, e.g. a missing project.ron).
// The project scheduler treats this the same as a detected change, forcing
// an initial load attempt with nothing yet on disk to watch.
func (h *ChangeHandler) IsEmpty() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.watched) == 0
}

// IsWatching reports whether path is currently registered with the watcher.
// Exposed for tests verifying load-cycle cleanup.
func (h *ChangeHandler) IsWatching(path string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.watched[path]
}

// Close stops the underlying watcher.
func (h *ChangeHandler) Close() error { return h.watcher.Close() }
