// Package project drives the load/reload/retry loop that keeps a running
// engine's project up to date with its source files on disk, distinct from
// render.Project itself (the already-resolved, render-ready result). A
// Scheduler owns the root path's Loader and file watcher and decides, once
// per tick, whether a reload is due.
package project

import (
	"context"
	"log"
	"time"

	"github.com/aedm/bitang/filecache"
	"github.com/aedm/bitang/loader"
	"github.com/aedm/bitang/render"
)

// retryInterval bounds how often a failed load is retried, so a user fixing
// a broken file on disk sees recovery without a manual restart.
const retryInterval = 500 * time.Millisecond

// Scheduler orchestrates load cycles: it polls the watcher every tick, and
// on a detected change (or an overdue retry while no project has loaded
// successfully) runs a full load cycle and atomically swaps the cached
// project.
type Scheduler struct {
	loader  *loader.Loader
	watcher *filecache.ChangeHandler

	lastLoadTime time.Time
	current      *render.Project
}

// New creates a Scheduler over an already-constructed Loader and its
// ChangeHandler.
func New(l *loader.Loader, watcher *filecache.ChangeHandler) *Scheduler {
	return &Scheduler{
		loader:       l,
		watcher:      watcher,
		lastLoadTime: time.Now().Add(-retryInterval),
	}
}

// Project returns the last successfully loaded project, or nil if none has
// loaded yet (or the most recent load cycle failed).
func (s *Scheduler) Project() *render.Project { return s.current }

// Tick runs one iteration of the poll/reload loop and returns the
// (possibly unchanged) current project.
func (s *Scheduler) Tick(ctx context.Context) *render.Project {
	changed := s.watcher.HandleFileChanges() != nil || s.watcher.IsEmpty()
	needsRetry := s.current == nil &&
		s.loader.HasMissingFiles() &&
		time.Since(s.lastLoadTime) > retryInterval

	if !changed && !needsRetry {
		return s.current
	}

	start := time.Now()
	s.loader.StartLoadCycle()
	p, err := s.loader.LoadProject(ctx)
	switch {
	case err != nil:
		if changed {
			log.Printf("project: load failed: %v", err)
		}
		s.loader.DisplayLoadErrors()
		s.current = nil
	default:
		log.Printf("project: length %.2fs, load time %s", p.Length, time.Since(start))
		s.current = p
	}
	s.watcher.UpdateWatchers(s.loader.Files.AccessedPaths())
	s.lastLoadTime = time.Now()

	return s.current
}
