package watch

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherRunsCallbackOnChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "model.puml")
	require.NoError(t, os.WriteFile(file, []byte("class A {\n}\n"), 0o644))

	var calls atomic.Int32
	w, err := NewWatcher(file, func() error {
		calls.Add(1)
		return nil
	}, nil)
	require.NoError(t, err)
	w.Debounce = 20 * time.Millisecond
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, w.Start())
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, os.WriteFile(file, []byte("class A {\n  + id : int\n}\n"), 0o644))
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "model.puml")
	require.NoError(t, os.WriteFile(file, []byte(""), 0o644))

	var calls atomic.Int32
	w, err := NewWatcher(file, func() error {
		calls.Add(1)
		return nil
	}, nil)
	require.NoError(t, err)
	w.Debounce = 20 * time.Millisecond
	t.Cleanup(func() { _ = w.Stop() })

	require.NoError(t, w.Start())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.puml"), []byte("x"), 0o644))

	assert.Never(t, func() bool { return calls.Load() > 1 }, 200*time.Millisecond, 20*time.Millisecond)
}

func TestWatcherInitialCallbackError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "model.puml")
	require.NoError(t, os.WriteFile(file, []byte(""), 0o644))

	w, err := NewWatcher(file, func() error { return errors.New("boom") }, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Stop() })

	err = w.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestWatcherStopTwice(t *testing.T) {
	file := filepath.Join(t.TempDir(), "model.puml")
	require.NoError(t, os.WriteFile(file, []byte(""), 0o644))

	w, err := NewWatcher(file, func() error { return nil }, nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}
