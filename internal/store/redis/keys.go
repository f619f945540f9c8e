package redis

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const (
	// keyPrefix namespaces every key this service writes.
	keyPrefix = "marks:"
	// KeyPrefixMetaCache is the prefix for cached metadata lookups.
	KeyPrefixMetaCache = keyPrefix + "cache:meta:"
)

// BookmarkKey returns the Redis key for one bookmark row, scoped to its owner.
func BookmarkKey(owner, id string) string {
	return fmt.Sprintf("%suser:%s:bookmark:%s", keyPrefix, owner, id)
}

// AllBookmarksKey returns the key of the per-owner index of bookmark ids,
// a sorted set scored by creation time.
func AllBookmarksKey(owner string) string {
	return fmt.Sprintf("%suser:%s:bookmarks:all", keyPrefix, owner)
}

// MetaCacheKey returns the key for cached metadata of a URL. The URL is
// hashed so arbitrary user input never lands verbatim in the keyspace.
func MetaCacheKey(url string) string {
	return KeyPrefixMetaCache + hashKey(url)
}

// hashKey creates a stable short identifier from a string. The same input
// always produces the same key.
func hashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
