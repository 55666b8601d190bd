// Package identity maps community profile ids to platform user ids for the
// trigger adapters. Event payloads carry profile ids; verification records
// are keyed by user id.
//
// The cache is an injected port so deployments choose the backend: the
// bounded in-process cache for single instances, Redis when consumers scale
// out. A cache miss is never an error, only a directory round trip.
package identity

import (
	"context"
	"log/slog"
	"time"

	"refguard/pkg/domain"
	dErrors "refguard/pkg/domain-errors"
)

// Cache is the lookup cache port. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, profileID domain.ProfileID) (domain.UserID, bool)
	Set(ctx context.Context, profileID domain.ProfileID, userID domain.UserID)
}

// Directory is the authoritative profile-to-user mapping.
type Directory interface {
	Lookup(ctx context.Context, profileID domain.ProfileID) (domain.UserID, error)
}

// Resolver resolves profile ids through the cache with directory fallback.
type Resolver struct {
	cache     Cache
	directory Directory
	logger    *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver creates a resolver over the given cache and directory.
func NewResolver(cache Cache, directory Directory, opts ...ResolverOption) (*Resolver, error) {
	if cache == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "cache is required")
	}
	if directory == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "directory is required")
	}
	r := &Resolver{
		cache:     cache,
		directory: directory,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve returns the user id for a profile id. Unknown profiles return
// CodeNotFound; negative results are not cached because profile creation
// races event delivery.
func (r *Resolver) Resolve(ctx context.Context, profileID domain.ProfileID) (domain.UserID, error) {
	if profileID.IsEmpty() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "profile id is required")
	}

	if userID, ok := r.cache.Get(ctx, profileID); ok {
		return userID, nil
	}

	start := time.Now()
	userID, err := r.directory.Lookup(ctx, profileID)
	if err != nil {
		return "", err
	}
	r.cache.Set(ctx, profileID, userID)

	r.logger.DebugContext(ctx, "profile resolved from directory",
		"profile_id", profileID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return userID, nil
}
