package recheck

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutex(t *testing.T) {
	t.Run("second holder waits for the first", func(t *testing.T) {
		k := newKeyedMutex()

		unlock, err := k.Lock(t.Context(), "p1")
		require.NoError(t, err)

		acquired := make(chan struct{})
		go func() {
			next, lockErr := k.Lock(t.Context(), "p1")
			if assert.NoError(t, lockErr) {
				close(acquired)
				next()
			}
		}()

		select {
		case <-acquired:
			t.Fatal("lock acquired while held")
		case <-time.After(20 * time.Millisecond):
		}

		unlock()
		<-acquired

		assert.Eventually(t, func() bool { return k.held() == 0 }, time.Second, time.Millisecond)
	})

	t.Run("different keys do not contend", func(t *testing.T) {
		k := newKeyedMutex()

		unlockA, err := k.Lock(t.Context(), "a")
		require.NoError(t, err)
		unlockB, err := k.Lock(t.Context(), "b")
		require.NoError(t, err)

		assert.Equal(t, 2, k.held())
		unlockA()
		unlockB()
		assert.Equal(t, 0, k.held())
	})

	t.Run("cancelled wait releases its slot", func(t *testing.T) {
		k := newKeyedMutex()

		unlock, err := k.Lock(t.Context(), "p1")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()

		_, err = k.Lock(ctx, "p1")
		require.ErrorIs(t, err, context.DeadlineExceeded)

		unlock()
		assert.Equal(t, 0, k.held())
	})

	t.Run("unlock is idempotent", func(t *testing.T) {
		k := newKeyedMutex()

		unlock, err := k.Lock(t.Context(), "p1")
		require.NoError(t, err)

		unlock()
		unlock()

		again, err := k.Lock(t.Context(), "p1")
		require.NoError(t, err)
		again()
	})
}
