package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isJS(path string) bool {
	return strings.HasSuffix(path, ".js")
}

func startWatcher(t *testing.T, w *watcher) (cancel func() error) {
	t.Helper()

	ctx, stop := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- w.run(ctx)
	}()

	return func() error {
		stop()

		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
			return nil
		}
	}
}

func TestWatcherReportsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.js")
	writeSource(t, path, "export default 1;\n")

	changes := make(chan []string, 10)

	var stderr bytes.Buffer

	w, err := newWatcher([]string{dir}, isJS, func(_ context.Context, changed []string) error {
		changes <- changed
		return nil
	}, &stderr)
	require.NoError(t, err)

	w.debounce = 20 * time.Millisecond
	stop := startWatcher(t, w)

	writeSource(t, filepath.Join(dir, "notes.txt"), "ignored")
	writeSource(t, path, "export default 2;\n")

	select {
	case changed := <-changes:
		require.Equal(t, []string{path}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	require.NoError(t, stop())
	require.Empty(t, stderr.String())
}

func TestWatcherCallbacksDoNotOverlap(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.js")
	second := filepath.Join(dir, "b.js")

	var (
		active  atomic.Int32
		overlap atomic.Bool
	)

	started := make(chan struct{}, 10)
	finished := make(chan struct{}, 10)

	w, err := newWatcher([]string{dir}, isJS, func(_ context.Context, _ []string) error {
		if active.Add(1) > 1 {
			overlap.Store(true)
		}

		started <- struct{}{}
		time.Sleep(200 * time.Millisecond)
		active.Add(-1)
		finished <- struct{}{}

		return nil
	}, os.Stderr)
	require.NoError(t, err)

	w.debounce = 10 * time.Millisecond
	stop := startWatcher(t, w)

	writeSource(t, first, "export default 1;\n")

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("first change not reported")
	}

	writeSource(t, second, "export default 2;\n")

	for range 2 {
		select {
		case <-finished:
		case <-time.After(5 * time.Second):
			t.Fatal("change not reported")
		}
	}

	require.NoError(t, stop())
	require.False(t, overlap.Load())
}
