package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchProcessesNewFile(t *testing.T) {
	r := newTestRunner(t)
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- r.Watch(ctx, dir)
	}()

	// Give the watcher a moment to register before dropping the file in.
	time.Sleep(100 * time.Millisecond)
	writeTestRadiograph(t, filepath.Join(dir, "scan.png"))

	output := filepath.Join(dir, "scan_processed.png")
	require.Eventually(t, func() bool {
		_, err := os.Stat(output)
		return err == nil
	}, 10*time.Second, 50*time.Millisecond, "watcher never produced %s", output)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatchMissingDir(t *testing.T) {
	r := newTestRunner(t)

	err := r.Watch(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
