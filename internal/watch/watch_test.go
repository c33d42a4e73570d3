package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanjuDataRepository/PBIP-Decoder/internal/watch"
)

const (
	testDebounce = 150 * time.Millisecond
	waitTimeout  = 5 * time.Second
)

type recorder struct {
	mu    sync.Mutex
	calls [][]string
	ch    chan struct{}
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan struct{}, 16)}
}

func (r *recorder) onChange(_ context.Context, changed []string) error {
	r.mu.Lock()
	r.calls = append(r.calls, changed)
	r.mu.Unlock()

	r.ch <- struct{}{}

	return nil
}

func (r *recorder) wait(t *testing.T) []string {
	t.Helper()

	select {
	case <-r.ch:
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for change")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.calls[len(r.calls)-1]
}

// waitFor consumes changes until one mentions path.
func (r *recorder) waitFor(t *testing.T, path string) {
	t.Helper()

	deadline := time.After(waitTimeout)

	for {
		select {
		case <-r.ch:
		case <-deadline:
			t.Fatalf("timed out waiting for %s", path)
		}

		r.mu.Lock()
		last := r.calls[len(r.calls)-1]
		r.mu.Unlock()

		if slices.Contains(last, path) {
			return
		}
	}
}

func start(t *testing.T, dirs []string, rec *recorder) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- watch.New(dirs, testDebounce, nil).Run(ctx, rec.onChange) }()

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	// Give the watcher time to register its directories.
	time.Sleep(100 * time.Millisecond)
}

func TestRun_DebouncesBurst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecorder()
	start(t, []string{dir}, rec)

	for _, name := range []string{"a.json", "b.json", "a.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o600))
	}

	changed := rec.wait(t)
	assert.Equal(t, []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json")}, changed)
}

func TestRun_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecorder()
	start(t, []string{dir}, rec)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	select {
	case <-rec.ch:
		t.Fatal("unexpected change for non-JSON file")
	case <-time.After(4 * testDebounce):
	}
}

func TestRun_WatchesNewDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rec := newRecorder()
	start(t, []string{dir}, rec)

	visual := filepath.Join(dir, "page1", "visuals", "v1")
	require.NoError(t, os.MkdirAll(visual, 0o750))
	rec.wait(t)

	require.NoError(t, os.WriteFile(filepath.Join(visual, "visual.json"), []byte("{}"), 0o600))

	rec.waitFor(t, filepath.Join(visual, "visual.json"))
}

func TestRun_NoDirectories(t *testing.T) {
	t.Parallel()

	err := watch.New([]string{"", ""}, testDebounce, nil).Run(context.Background(), newRecorder().onChange)
	require.ErrorIs(t, err, watch.ErrNoDirectories)
}

func TestIsDocument(t *testing.T) {
	t.Parallel()

	assert.True(t, watch.IsDocument("a/page.json"))
	assert.True(t, watch.IsDocument("a/PAGE.JSON"))
	assert.False(t, watch.IsDocument("a/page.json.tmp"))
	assert.False(t, watch.IsDocument("a/dir"))
}
