package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string, calls *atomic.Int32) *Watcher {
	t.Helper()
	w, err := New(path, func() { calls.Add(1) }, zerolog.Nop())
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)
	require.NoError(t, w.Start())
	t.Cleanup(func() { _ = w.Stop() })
	return w
}

func TestWatcher_WhenTargetWritten_ShouldCallOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	var calls atomic.Int32
	startWatcher(t, path, &calls)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{}\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_WhenTargetCreatedLater_ShouldCallOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "later.jsonl")

	var calls atomic.Int32
	startWatcher(t, path, &calls)

	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_WhenOtherFileWritten_ShouldStayQuiet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.jsonl")

	var calls atomic.Int32
	startWatcher(t, path, &calls)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.jsonl"), []byte("{}\n"), 0o644))

	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestWatcher_WhenParentMissing_ShouldFailToStart(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing", "session.jsonl"), nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Error(t, w.Start())
	assert.NoError(t, w.Stop())
}

func TestWatcher_Stop_ShouldBeIdempotent(t *testing.T) {
	var calls atomic.Int32
	w := startWatcher(t, filepath.Join(t.TempDir(), "x.jsonl"), &calls)
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
