package identity

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
)

type stubDirectory struct {
	bindings map[domain.ProfileID]domain.UserID
	lookups  int
}

func (d *stubDirectory) Lookup(_ context.Context, profileID domain.ProfileID) (domain.UserID, error) {
	d.lookups++
	if userID, ok := d.bindings[profileID]; ok {
		return userID, nil
	}
	return "", dErrors.New(dErrors.CodeNotFound, "unknown community profile")
}

func TestResolverCachesDirectoryHits(t *testing.T) {
	ctx := context.Background()
	dir := &stubDirectory{bindings: map[domain.ProfileID]domain.UserID{"p1": "u1"}}
	resolver, err := NewResolver(NewMemoryCache(8), dir)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		userID, err := resolver.Resolve(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, domain.UserID("u1"), userID)
	}
	assert.Equal(t, 1, dir.lookups, "repeat resolutions must hit the cache")
}

func TestResolverDoesNotCacheMisses(t *testing.T) {
	ctx := context.Background()
	dir := &stubDirectory{bindings: map[domain.ProfileID]domain.UserID{}}
	resolver, err := NewResolver(NewMemoryCache(8), dir)
	require.NoError(t, err)

	_, err = resolver.Resolve(ctx, "p1")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	// The profile appears later; the earlier miss must not stick.
	dir.bindings["p1"] = "u1"
	userID, err := resolver.Resolve(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.UserID("u1"), userID)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(3)

	for i := 0; i < 3; i++ {
		cache.Set(ctx, domain.ProfileID(fmt.Sprintf("p%d", i)), domain.UserID(fmt.Sprintf("u%d", i)))
	}

	// Touch p0 so p1 becomes the eviction candidate.
	_, ok := cache.Get(ctx, "p0")
	require.True(t, ok)

	cache.Set(ctx, "p3", "u3")

	assert.Equal(t, 3, cache.Len())
	_, ok = cache.Get(ctx, "p1")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = cache.Get(ctx, "p0")
	assert.True(t, ok)
	_, ok = cache.Get(ctx, "p3")
	assert.True(t, ok)
}
