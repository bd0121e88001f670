package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_shouldWatch(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		exclude  []string
		path     string
		want     bool
	}{
		{
			name:     "match go file",
			patterns: []string{"*.go"},
			path:     "/project/spec.go",
			want:     true,
		},
		{
			name:     "match nested file with ** pattern",
			patterns: []string{"**/*.go"},
			path:     "/project/internal/pkg/spec.go",
			want:     true,
		},
		{
			name:     "generated output is excluded",
			patterns: []string{"*.go"},
			exclude:  DefaultExclude,
			path:     "/project/shape_enum.go",
			want:     false,
		},
		{
			name:     "formatting sidecar is excluded",
			patterns: []string{"*.go"},
			exclude:  DefaultExclude,
			path:     "/project/shape_enum.unformatted.go",
			want:     false,
		},
		{
			name:     "editor swap file is excluded",
			patterns: []string{"*"},
			exclude:  DefaultExclude,
			path:     "/project/.spec.go.swp",
			want:     false,
		},
		{
			name:     "schema file",
			patterns: []string{"*.yaml", "*.json"},
			path:     "/project/unions.yaml",
			want:     true,
		},
		{
			name:     "no match",
			patterns: []string{"*.go"},
			path:     "/project/readme.md",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Watcher{
				patterns: tt.patterns,
				exclude:  tt.exclude,
			}

			assert.Equal(t, tt.want, w.shouldWatch(tt.path))
		})
	}
}

func TestWatcher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	dir := t.TempDir()
	vendor := filepath.Join(dir, "vendor")
	require.NoError(t, os.MkdirAll(vendor, 0o755))

	var (
		mu    sync.Mutex
		calls [][]string
	)

	w, err := New(Options{
		Patterns: []string{"*.go"},
		Debounce: 50 * time.Millisecond,
	}, func(paths []string) {
		mu.Lock()
		defer mu.Unlock()

		calls = append(calls, paths)
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.AddDirectory(dir))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)

	spec := filepath.Join(dir, "spec.go")
	require.NoError(t, os.WriteFile(spec, []byte("package p"), 0o644))
	require.NoError(t, os.WriteFile(spec, []byte("package p\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spec_enum.go"), []byte("package p"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(vendor, "lib.go"), []byte("package lib"), 0o644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(calls) > 0
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	mu.Lock()
	defer mu.Unlock()

	// Both writes to spec.go settle into one callback.
	require.Len(t, calls, 1)
	assert.Equal(t, []string{spec}, calls[0])
}

func TestWatcher_AddFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unions.yaml")
	require.NoError(t, os.WriteFile(path, []byte("package: p\n"), 0o644))

	w, err := New(Options{}, func([]string) {})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.AddFile(path))
	assert.True(t, w.shouldWatch(path))
	assert.False(t, w.shouldWatch(filepath.Join(dir, "other.yaml")))
}

func TestWatcher_AddDirectoryMissing(t *testing.T) {
	w, err := New(Options{}, func([]string) {})
	require.NoError(t, err)
	defer w.Close()

	require.Error(t, w.AddDirectory(filepath.Join(t.TempDir(), "missing")))
}
