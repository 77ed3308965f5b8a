package inmemory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/dogecustody/internal/infrastructure/locker/inmemory"
)

func TestLocker(t *testing.T) {
	t.Run("exclusive per key", func(t *testing.T) {
		locker := inmemory.NewLocker()
		ctx := context.Background()

		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			running int
			maxSeen int
		)
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := locker.Lock(ctx, "addr")
				require.NoError(t, err)
				defer unlock()

				mu.Lock()
				running++
				if running > maxSeen {
					maxSeen = running
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				running--
				mu.Unlock()
			}()
		}
		wg.Wait()
		require.Equal(t, 1, maxSeen)
	})

	t.Run("independent keys", func(t *testing.T) {
		locker := inmemory.NewLocker()
		ctx := context.Background()

		unlockA, err := locker.Lock(ctx, "a")
		require.NoError(t, err)
		defer unlockA()

		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		unlockB, err := locker.Lock(ctx, "b")
		require.NoError(t, err)
		unlockB()
	})

	t.Run("context done", func(t *testing.T) {
		locker := inmemory.NewLocker()

		unlock, err := locker.Lock(context.Background(), "addr")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(
			context.Background(), 20*time.Millisecond,
		)
		defer cancel()
		_, err = locker.Lock(ctx, "addr")
		require.ErrorIs(t, err, context.DeadlineExceeded)

		unlock()
		unlock()

		unlock, err = locker.Lock(context.Background(), "addr")
		require.NoError(t, err)
		unlock()
	})
}
