package cache

import "context"

// EvictCallback is called when a page is evicted to make room for newer ones.
// Backends that evict server-side (Redis) pass a nil value.
type EvictCallback func(key string, value []byte)

// Logger receives backend failures that the Cache methods swallow.
type Logger interface {
	Error(msg string, err error)
}

// Cache stores opaque byte payloads (serialized session pages) keyed by session id.
// Entries expire after the configured TTL and the least recently used entry is
// dropped once the configured size is exceeded.
type Cache interface {
	// Get returns the stored payload and refreshes its recency.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores or replaces the payload for key and restarts its TTL.
	Set(ctx context.Context, key string, value []byte)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string)

	// Len reports the number of live entries.
	Len() int

	Close() error
}
