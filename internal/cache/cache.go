// Package cache stores rendered analysis payloads and fetched snapshots
// keyed by content hash, layered memory over disk.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the byte-level store. Implementations are safe for concurrent
// use.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the versioned cache key for an identity string (a content
// hash or a fetch URL). The prefix changes whenever the stored shape does,
// so stale entries miss instead of decoding wrong.
func Key(identity string) string {
	hash := sha256.Sum256([]byte(identity))
	return "crosswiki:v1:" + hex.EncodeToString(hash[:])
}
