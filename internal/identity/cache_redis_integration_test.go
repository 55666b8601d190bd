//go:build integration

package identity_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"refguard/internal/identity"
	platformredis "refguard/internal/platform/redis"
	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
	"refguard/pkg/testutil/containers"
)

type countingDirectory struct {
	mapping map[string]string
	lookups int
}

func (d *countingDirectory) Lookup(_ context.Context, profileID domain.ProfileID) (domain.UserID, error) {
	d.lookups++
	if userID, ok := d.mapping[profileID.String()]; ok {
		return domain.UserID(userID), nil
	}
	return "", dErrors.New(dErrors.CodeNotFound, "unknown community profile")
}

type RedisCacheSuite struct {
	suite.Suite
	ctx   context.Context
	redis *containers.RedisContainer
	cache *identity.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.ctx = context.Background()
	s.redis = containers.NewRedisContainer(s.T())
	client := &platformredis.Client{Client: s.redis.Client}
	s.cache = identity.NewRedisCache(client, time.Hour, slog.Default())
}

func (s *RedisCacheSuite) TearDownSuite() {
	_ = s.redis.Container.Terminate(s.ctx)
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisCacheSuite) TestSetThenGet() {
	s.cache.Set(s.ctx, "cp-1", "u1")

	userID, ok := s.cache.Get(s.ctx, "cp-1")
	s.True(ok)
	s.Equal("u1", userID.String())
}

func (s *RedisCacheSuite) TestMissingKeyIsAMiss() {
	_, ok := s.cache.Get(s.ctx, "cp-unknown")
	s.False(ok)
}

func (s *RedisCacheSuite) TestEntriesExpire() {
	client := &platformredis.Client{Client: s.redis.Client}
	shortLived := identity.NewRedisCache(client, time.Second, slog.Default())
	shortLived.Set(s.ctx, "cp-2", "u2")

	_, ok := shortLived.Get(s.ctx, "cp-2")
	s.True(ok)

	time.Sleep(1500 * time.Millisecond)

	_, ok = shortLived.Get(s.ctx, "cp-2")
	s.False(ok)
}

func (s *RedisCacheSuite) TestResolverUsesSharedCache() {
	dir := &countingDirectory{mapping: map[string]string{"cp-3": "u3"}}
	resolver, err := identity.NewResolver(s.cache, dir)
	s.Require().NoError(err)

	for range 3 {
		userID, err := resolver.Resolve(s.ctx, "cp-3")
		s.Require().NoError(err)
		s.Equal("u3", userID.String())
	}
	s.Equal(1, dir.lookups)
}
