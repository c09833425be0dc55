// Package kv defines the key-value store contract the limiter runs against.
//
// The store is treated as an opaque, eventually consistent map from string
// keys to byte values. No atomicity is assumed across a Get and a later Put
// for the same key; writes are last-write-wins.
package kv

import (
	"context"
	"time"
)

// Store is the minimal surface the limiter needs from an external store.
type Store interface {
	// Get returns the value stored under key, or ok=false if the key is
	// absent. A transport failure is returned as a non-nil error.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put stores value under key, unconditionally overwriting any prior
	// value. A ttl > 0 asks the store to drop the key after that duration;
	// ttl == 0 keeps it indefinitely.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
