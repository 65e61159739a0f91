// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package trace

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// GraphWatcher reloads the service graph when its DOT file changes.
//
// # Description
//
// Watches the directory containing the graph file and debounces write
// events before reloading. Editors typically produce several events
// per save (write, chmod, rename for atomic saves); the debounce
// window collapses them into one reload.
//
// The parent directory is watched rather than the file itself so that
// atomic saves (write to temp, rename over target) keep being seen
// after the original inode is replaced.
//
// # Thread Safety
//
// Safe for concurrent use. Reloads happen from a single goroutine.
type GraphWatcher struct {
	svc      *Service
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration

	done     chan struct{}
	stopOnce sync.Once

	mu       sync.RWMutex
	watching bool
}

// GraphWatcherOptions configures the GraphWatcher.
type GraphWatcherOptions struct {
	// DebounceWindow is how long to wait for more changes before reloading.
	// Default: 250ms
	DebounceWindow time.Duration
}

// DefaultGraphWatcherOptions returns sensible defaults.
func DefaultGraphWatcherOptions() GraphWatcherOptions {
	return GraphWatcherOptions{
		DebounceWindow: 250 * time.Millisecond,
	}
}

// NewGraphWatcher creates a watcher that reloads svc from path on change.
//
// # Inputs
//
//   - svc: The service whose graph is reloaded.
//   - path: Path to the DOT graph file.
//   - opts: Optional configuration (nil uses defaults).
//
// # Outputs
//
//   - *GraphWatcher: Ready-to-use watcher (call Start to begin watching).
//   - error: Non-nil if the underlying fsnotify watcher could not be created.
func NewGraphWatcher(svc *Service, path string, opts *GraphWatcherOptions) (*GraphWatcher, error) {
	if opts == nil {
		defaults := DefaultGraphWatcherOptions()
		opts = &defaults
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &GraphWatcher{
		svc:      svc,
		path:     filepath.Clean(path),
		watcher:  watcher,
		debounce: opts.DebounceWindow,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching for changes to the graph file.
//
// Spawns one goroutine that exits when Stop() is called or the
// context is canceled.
func (w *GraphWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil // Already watching
	}
	w.watching = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go w.loop(ctx)
	return nil
}

// Stop stops the watcher.
func (w *GraphWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()

		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
	})
}

// IsWatching returns true if the watcher is currently active.
func (w *GraphWatcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.watching
}

// loop consumes fsnotify events, debounces those that touch the graph
// file, and reloads the service when the window expires.
func (w *GraphWatcher) loop(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.isGraphEvent(event) {
				continue
			}

			// Reset or start debounce timer. A fired-but-unread timer
			// must be drained before Reset, or the stale tick would
			// trigger one reload early and a second at expiry.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timerC:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("Graph watcher error", "error", err)
		}
	}
}

// isGraphEvent reports whether the event is a relevant change to the
// watched graph file. Removes are ignored; atomic saves remove the
// old inode before the create/rename that matters arrives.
func (w *GraphWatcher) isGraphEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// reload swaps in the new graph. A parse failure keeps the previous
// graph in service.
func (w *GraphWatcher) reload() {
	if err := w.svc.LoadGraph(w.path); err != nil {
		slog.Error("Graph reload failed, keeping previous graph",
			"file", w.path,
			"error", err)
		return
	}
	slog.Info("Graph reloaded", "file", w.path)
}
