package referrer

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Get for untouched referrer returns zero counters", func(t *testing.T) {
		store := NewMemory()
		st, err := store.Get(ctx, "ref-1")
		require.NoError(t, err)
		assert.Equal(t, 0, st.TotalReferred)
		assert.Equal(t, 0, st.PendingVerifications)
	})

	t.Run("Apply accumulates deltas", func(t *testing.T) {
		store := NewMemory()
		require.NoError(t, store.Apply(ctx, "ref-1", Delta{Referred: 1, Pending: 1}))
		require.NoError(t, store.Apply(ctx, "ref-1", Delta{Verified: 1, Pending: -1}))

		st, err := store.Get(ctx, "ref-1")
		require.NoError(t, err)
		assert.Equal(t, 1, st.TotalReferred)
		assert.Equal(t, 1, st.TotalVerified)
		assert.Equal(t, 0, st.PendingVerifications)
	})

	t.Run("Get returns a copy", func(t *testing.T) {
		store := NewMemory()
		require.NoError(t, store.Apply(ctx, "ref-1", Delta{Referred: 1}))

		st, _ := store.Get(ctx, "ref-1")
		st.TotalReferred = 99

		again, _ := store.Get(ctx, "ref-1")
		assert.Equal(t, 1, again.TotalReferred)
	})

	t.Run("concurrent referee finalizations all land", func(t *testing.T) {
		store := NewMemory()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, store.Apply(ctx, "ref-1", Delta{Verified: 1, Pending: -1}))
			}()
		}
		wg.Wait()

		st, err := store.Get(ctx, "ref-1")
		require.NoError(t, err)
		assert.Equal(t, 50, st.TotalVerified)
		assert.Equal(t, -50, st.PendingVerifications)
	})
}
