// api/cache/store.go

// Package cache provides the generic key/value engines the ACL cache
// adapter writes through. Values are opaque byte payloads; interpretation
// and key layout belong to the caller.
package cache

import "context"

// Store is a generic cache capability. Implementations must be safe for
// concurrent use.
type Store interface {
	// Get returns the payload stored under key. A miss is (nil, false, nil)
	// and is never an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put stores the payload under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Evict removes key. Evicting an absent key is a no-op.
	Evict(ctx context.Context, key string) error

	// Clear removes every entry owned by the store.
	Clear(ctx context.Context) error
}
