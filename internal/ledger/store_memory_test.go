package ledger

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refguard/pkg/domain"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("first delivery counts, replay does not", func(t *testing.T) {
		store := NewMemory()

		counted, n, err := store.MarkCounted(ctx, "user-1", domain.ItemForumPosts, "p1")
		require.NoError(t, err)
		assert.True(t, counted)
		assert.Equal(t, 1, n)

		counted, n, err = store.MarkCounted(ctx, "user-1", domain.ItemForumPosts, "p1")
		require.NoError(t, err)
		assert.False(t, counted)
		assert.Equal(t, 1, n)
	})

	t.Run("cardinality is scoped per action type", func(t *testing.T) {
		store := NewMemory()

		_, _, _ = store.MarkCounted(ctx, "user-1", domain.ItemForumPosts, "p1")
		_, _, _ = store.MarkCounted(ctx, "user-1", domain.ItemForumComments, "c1")

		n, err := store.CountByType(ctx, "user-1", domain.ItemForumPosts)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("cardinality is scoped per user", func(t *testing.T) {
		store := NewMemory()

		_, _, _ = store.MarkCounted(ctx, "user-1", domain.ItemForumPosts, "p1")

		n, err := store.CountByType(ctx, "user-2", domain.ItemForumPosts)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("WasCounted reflects the ledger", func(t *testing.T) {
		store := NewMemory()

		was, err := store.WasCounted(ctx, "user-1", "p1")
		require.NoError(t, err)
		assert.False(t, was)

		_, _, _ = store.MarkCounted(ctx, "user-1", domain.ItemForumPosts, "p1")

		was, err = store.WasCounted(ctx, "user-1", "p1")
		require.NoError(t, err)
		assert.True(t, was)
	})

	t.Run("concurrent duplicate deliveries count exactly once", func(t *testing.T) {
		store := NewMemory()

		var wg sync.WaitGroup
		wins := make(chan bool, 32)
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				counted, _, err := store.MarkCounted(ctx, "user-1", domain.ItemForumPosts, "p1")
				assert.NoError(t, err)
				wins <- counted
			}()
		}
		wg.Wait()
		close(wins)

		won := 0
		for counted := range wins {
			if counted {
				won++
			}
		}
		assert.Equal(t, 1, won)

		n, err := store.CountByType(ctx, "user-1", domain.ItemForumPosts)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
