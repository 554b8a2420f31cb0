package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a backend name and query
func Key(backend, query string) string {
	hash := sha256.Sum256([]byte(backend + "\x00" + query))
	return "factcheck:v1:" + hex.EncodeToString(hash[:])
}
