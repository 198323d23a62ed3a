// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"znkr.io/docdiff/editstate"
)

// watcher turns file system events for a set of files into settled bursts of edits.
type watcher struct {
	names   map[string]bool // cleaned paths of the watched files
	machine *editstate.Machine
}

func newWatcher(paths []string, quiet time.Duration) *watcher {
	w := &watcher{
		names:   make(map[string]bool, len(paths)),
		machine: editstate.New(quiet),
	}
	for _, p := range paths {
		w.names[filepath.Clean(p)] = true
	}
	return w
}

// event records ev at now if it changed one of the watched files. Editors often replace a file
// instead of writing it, so creates and renames count as edits too.
func (w *watcher) event(ev fsnotify.Event, now time.Time) bool {
	if !w.names[filepath.Clean(ev.Name)] {
		return false
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	w.machine.Edit(now)
	return true
}

// tick advances the watcher to now. It reports whether a burst of edits settled.
func (w *watcher) tick(now time.Time) bool {
	if !w.machine.Tick(now) {
		return false
	}
	w.machine.Reset()
	return true
}

// watch calls fn once and then again whenever the files at paths were edited and the edits
// settled. It returns when ctx is done.
func watch(ctx context.Context, paths []string, interval time.Duration, fn func(), logger *slog.Logger) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	// Directories are watched, files might be replaced. They're only added once.
	dirs := make(map[string]bool)
	for _, p := range paths {
		dir := filepath.Dir(filepath.Clean(p))
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	w := newWatcher(paths, editstate.DefaultQuiet)
	fn()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.event(ev, time.Now()) {
				logger.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watching files", "err", err)
		case now := <-ticker.C:
			edits := w.machine.Edits()
			if w.tick(now) {
				logger.Debug("files settled", "edits", edits)
				fn()
			}
		}
	}
}
