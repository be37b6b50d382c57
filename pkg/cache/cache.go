// Package cache stores settled layouts so a network reopens where it came
// to rest instead of settling again from the spiral.
//
// # Backends
//
// Every backend implements [Cache], a byte-oriented key/value store with
// optional expiry:
//
//   - [NullCache]: never stores anything; caching disabled
//   - [FileCache]: one JSON file per entry under a local directory, for the CLI
//   - [RedisCache]: shared cache for several live servers
//   - [MongoCache]: document store with a TTL index, for long-lived archives
//
// # Layouts
//
// Keys come from a [Keyer]. A layout key combines the [GraphHash] of the
// loaded network with the options that change where nodes settle, so a
// different threshold or link distance never reuses a stale layout:
//
//	key := cache.NewDefaultKeyer().LayoutKey(cache.GraphHash(g), cache.LayoutKeyOpts{...})
//	if pos, err := cache.LoadLayout(ctx, c, key); err == nil {
//	    pos.Apply(g) // warm start
//	}
//	...
//	cache.SaveLayout(ctx, c, key, cache.Capture(g), 30*24*time.Hour)
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store. Get reports a miss with
// ok == false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
