// Package realm answers whether a realm the registry knows about is still
// reachable by the front end.
package realm

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Resolver reports whether a realm still exists. Realms that no longer
// exist are treated as tombstoned by account listings.
type Resolver interface {
	Exists(ctx context.Context, realm string) (bool, error)
}

// ResolverFunc adapts a function to Resolver
type ResolverFunc func(ctx context.Context, realm string) (bool, error)

// Exists calls f
func (f ResolverFunc) Exists(ctx context.Context, realm string) (bool, error) {
	return f(ctx, realm)
}

// AllowAll treats every realm as live
var AllowAll Resolver = ResolverFunc(func(context.Context, string) (bool, error) { return true, nil })

// StaticResolver answers from a fixed allow-list. An empty list allows every realm.
type StaticResolver struct {
	known map[string]struct{}
}

// NewStaticResolver creates a resolver for the given realms
func NewStaticResolver(realms ...string) *StaticResolver {
	known := make(map[string]struct{}, len(realms))
	for _, r := range realms {
		if r = strings.TrimSpace(r); r != "" {
			known[r] = struct{}{}
		}
	}
	return &StaticResolver{known: known}
}

// Exists reports whether realm is on the allow-list
func (s *StaticResolver) Exists(_ context.Context, realm string) (bool, error) {
	if len(s.known) == 0 {
		return true, nil
	}
	_, ok := s.known[realm]
	return ok, nil
}

// CachedResolver memoizes another resolver's answers for a TTL.
// Errors are not cached.
type CachedResolver struct {
	inner Resolver
	lru   *expirable.LRU[string, bool]
}

// NewCachedResolver wraps inner with an LRU of the given size and TTL
func NewCachedResolver(inner Resolver, size int, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		lru:   expirable.NewLRU[string, bool](size, nil, ttl),
	}
}

// Exists answers from the cache, falling back to the wrapped resolver
func (c *CachedResolver) Exists(ctx context.Context, realm string) (bool, error) {
	if exists, ok := c.lru.Get(realm); ok {
		return exists, nil
	}
	exists, err := c.inner.Exists(ctx, realm)
	if err != nil {
		return false, err
	}
	c.lru.Add(realm, exists)
	return exists, nil
}

// Invalidate drops the cached answer for realm
func (c *CachedResolver) Invalidate(realm string) {
	c.lru.Remove(realm)
}
