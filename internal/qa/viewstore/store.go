// Package viewstore keeps serialized view state between UI events.
//
// A view state lives only as long as its TTL; an expired or evicted view is
// indistinguishable from one that never existed, which is how a reload looks
// to callers.
package viewstore

import "context"

// Store persists opaque view payloads by key.
type Store interface {
	// Get reports false when the key is unknown or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put stores value and restarts its TTL.
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
