package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codehawk/codehawk/internal/config"
)

func TestWatcher_DebouncesBursts(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.Root = root

	var fires atomic.Int32
	fired := make(chan struct{}, 8)
	w := New(cfg, 100*time.Millisecond, nil, func() {
		fires.Add(1)
		fired <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(50 * time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, "a.py"), []byte("x = 1\n"), 0644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never fired")
	}
	// The burst has settled; no further callback should arrive.
	select {
	case <-fired:
		t.Fatal("burst triggered more than one callback")
	case <-time.After(300 * time.Millisecond):
	}
	assert.Equal(t, int32(1), fires.Load())

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_IgnoresNoiseDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "dep"), 0755))

	cfg := config.Default()
	cfg.Root = root

	fired := make(chan struct{}, 1)
	w := New(cfg, 50*time.Millisecond, nil, func() { fired <- struct{}{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "dep", "index.js"), []byte("x"), 0644))

	select {
	case <-fired:
		t.Fatal("ignored directory triggered the callback")
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	<-done
}

func TestWatcher_IgnoredPaths(t *testing.T) {
	cfg := config.Default()
	w := New(cfg, time.Second, nil, func() {})

	assert.True(t, w.ignored("/proj/.git/index"))
	assert.True(t, w.ignored("/proj/node_modules/x/y.js"))
	assert.True(t, w.ignored("/proj/src/.app.py.swp"))
	assert.False(t, w.ignored("/proj/src/app.py"))
}
