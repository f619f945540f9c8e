package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kbazin/marks/internal/domain"
)

// CacheMetadata stores a url -> fetched metadata entry so repeated saves of
// the same page skip the external lookups while the entry is fresh.
func (s *Store) CacheMetadata(ctx context.Context, url string, meta *domain.Metadata, ttl time.Duration) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := s.client.Set(ctx, MetaCacheKey(url), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache metadata: %w", err)
	}
	return nil
}

// GetMetadata retrieves cached metadata for a url. A cache miss returns
// (nil, nil).
func (s *Store) GetMetadata(ctx context.Context, url string) (*domain.Metadata, error) {
	data, err := s.client.Get(ctx, MetaCacheKey(url)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get cached metadata: %w", err)
	}

	var meta domain.Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached metadata: %w", err)
	}
	return &meta, nil
}

// FlushMetadataCache removes all cached metadata entries.
func (s *Store) FlushMetadataCache(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixMetaCache+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush metadata cache: %w", err)
	}
	return nil
}
