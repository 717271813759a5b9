//go:build integration

package rod_test

import (
	"testing"

	betterbing "github.com/huyouare/better-bing"
	"github.com/huyouare/better-bing/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_Acquire(t *testing.T) {
	t.Parallel()

	t.Run("hands out a fresh browser once max pages are leased", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(2))
		require.NoError(t, err)
		defer manager.Close()

		first, release, err := manager.Acquire()
		require.NoError(t, err)
		release()
		same, release, err := manager.Acquire()
		require.NoError(t, err)
		release()
		assert.Same(t, first, same)

		next, release, err := manager.Acquire()
		require.NoError(t, err)
		defer release()
		assert.NotSame(t, first, next)
	})

	t.Run("keeps a retired browser alive until its lease is released", func(t *testing.T) {
		t.Parallel()

		// Given: a render still holding the first browser
		manager, err := rod.NewBrowserManager(rod.WithMaxPages(1))
		require.NoError(t, err)
		defer manager.Close()

		held, releaseHeld, err := manager.Acquire()
		require.NoError(t, err)

		// When: the next render forces a recycle
		_, releaseNext, err := manager.Acquire()
		require.NoError(t, err)
		defer releaseNext()

		// Then: the held browser still answers until released
		_, err = held.Version()
		require.NoError(t, err)

		releaseHeld()
		releaseHeld() // second release is a no-op

		_, err = held.Version()
		assert.Error(t, err)
	})

	t.Run("never recycles when max pages is disabled", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager(rod.WithMaxPages(0))
		require.NoError(t, err)
		defer manager.Close()

		first, release, err := manager.Acquire()
		require.NoError(t, err)
		release()
		for range 5 {
			b, release, err := manager.Acquire()
			require.NoError(t, err)
			release()
			assert.Same(t, first, b)
		}
	})

	t.Run("fails after Close", func(t *testing.T) {
		t.Parallel()

		manager, err := rod.NewBrowserManager()
		require.NoError(t, err)
		require.NoError(t, manager.Close())
		require.NoError(t, manager.Close())

		_, _, err = manager.Acquire()

		assert.Equal(t, betterbing.EINVALID, betterbing.ErrorCode(err))
		assert.Zero(t, manager.LauncherPID())
	})
}
