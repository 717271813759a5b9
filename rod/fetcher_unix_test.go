//go:build integration && !windows

package rod_test

import (
	"syscall"
	"testing"
	"time"

	"github.com/huyouare/better-bing/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// processAlive reports whether pid exists; signal 0 checks without
// affecting the process.
func processAlive(pid int) bool {
	return syscall.Kill(pid, syscall.Signal(0)) == nil
}

func TestFetcher_Close_KillsLauncherProcess(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)

	pid := fetcher.LauncherPID()
	require.NotZero(t, pid, "launcher PID should be set")
	require.True(t, processAlive(pid), "launcher should run before Close")

	require.NoError(t, fetcher.Close())

	// Give the OS a moment to reap the process
	time.Sleep(100 * time.Millisecond)
	assert.False(t, processAlive(pid), "launcher should be gone after Close")
}

func TestBrowserManager_Recycle_KillsRetiredLauncher(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithMaxPages(1))
	require.NoError(t, err)
	defer manager.Close()

	_, release, err := manager.Acquire()
	require.NoError(t, err)
	firstPID := manager.LauncherPID()
	release()

	_, release, err = manager.Acquire()
	require.NoError(t, err)
	defer release()

	time.Sleep(100 * time.Millisecond)
	assert.NotEqual(t, firstPID, manager.LauncherPID())
	assert.False(t, processAlive(firstPID), "retired launcher should be killed once idle")
}
