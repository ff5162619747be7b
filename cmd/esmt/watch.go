package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the quiet period after the last event before a rebuild.
// Editors often write a file several times in a row.
const defaultDebounce = 200 * time.Millisecond

var errWatcherClosed = errors.New("watcher closed unexpectedly")

// watcher re-runs a callback when files accepted by match change
type watcher struct {
	fsw      *fsnotify.Watcher
	match    func(path string) bool
	onChange func(ctx context.Context, changed []string) error
	debounce time.Duration
	stderr   io.Writer
}

// newWatcher watches every directory under each of roots. A root may be a
// file, in which case its directory is watched.
func newWatcher(roots []string, match func(string) bool, onChange func(context.Context, []string) error, stderr io.Writer) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &watcher{
		fsw:      fsw,
		match:    match,
		onChange: onChange,
		debounce: defaultDebounce,
		stderr:   stderr,
	}

	for _, root := range roots {
		if err := w.add(root); err != nil {
			fsw.Close() //nolint:errcheck

			return nil, err
		}
	}

	return w, nil
}

func (w *watcher) add(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}

	if !info.IsDir() {
		return w.fsw.Add(filepath.Dir(root))
	}

	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil //nolint:nilerr
		}

		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}

		return nil
	})
}

// run blocks until ctx is cancelled
func (w *watcher) run(ctx context.Context) error {
	var (
		mu      sync.Mutex
		running sync.Mutex // held while onChange runs
		pending = make(map[string]struct{})
		timer   *time.Timer
	)

	fire := func() {
		running.Lock()
		defer running.Unlock()

		if ctx.Err() != nil {
			return
		}

		mu.Lock()
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if len(changed) == 0 {
			return
		}

		if err := w.onChange(ctx, changed); err != nil {
			fmt.Fprintf(w.stderr, "Error: %v\n", err)
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()

		w.fsw.Close() //nolint:errcheck
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return errWatcherClosed
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.add(event.Name); err != nil {
						fmt.Fprintf(w.stderr, "Error: %v\n", err)
					}

					continue
				}
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if !w.match(event.Name) {
				continue
			}

			mu.Lock()
			pending[event.Name] = struct{}{}

			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errWatcherClosed
			}

			fmt.Fprintf(w.stderr, "Error: watch: %v\n", err)
		}
	}
}
