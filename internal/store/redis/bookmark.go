package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kbazin/marks/internal/domain"
)

// Store handles Redis persistence for bookmarks and the metadata cache.
// Every bookmark operation is scoped to an owner; keys of different owners
// never overlap, so a user cannot reach another user's rows.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// Insert persists a new bookmark for owner. The store assigns the id and the
// creation timestamp; whatever the caller put in those fields is discarded.
// Returns the stored row.
func (s *Store) Insert(ctx context.Context, owner string, bm *domain.Bookmark) (*domain.Bookmark, error) {
	stored := *bm
	stored.ID = uuid.NewString()
	stored.Owner = owner
	stored.CreatedAt = time.Now().UTC()
	stored.Pending = false
	if stored.Tags == nil {
		stored.Tags = []string{}
	}

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bookmark: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, BookmarkKey(owner, stored.ID), data, 0)
	pipe.ZAdd(ctx, AllBookmarksKey(owner), redis.Z{
		Score:  float64(stored.CreatedAt.UnixNano()),
		Member: stored.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to save bookmark: %w", err)
	}

	return &stored, nil
}

// Get retrieves one bookmark by id, scoped to owner.
func (s *Store) Get(ctx context.Context, owner, id string) (*domain.Bookmark, error) {
	data, err := s.client.Get(ctx, BookmarkKey(owner, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var bm domain.Bookmark
	if err := json.Unmarshal(data, &bm); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}
	return &bm, nil
}

// List retrieves all bookmarks for owner, newest first.
func (s *Store) List(ctx context.Context, owner string) ([]*domain.Bookmark, error) {
	ids, err := s.client.ZRevRange(ctx, AllBookmarksKey(owner), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark ids: %w", err)
	}

	if len(ids) == 0 {
		return []*domain.Bookmark{}, nil
	}

	bookmarks := make([]*domain.Bookmark, 0, len(ids))
	for _, id := range ids {
		bm, err := s.Get(ctx, owner, id)
		if err != nil {
			// Skip rows that couldn't be retrieved
			continue
		}
		bookmarks = append(bookmarks, bm)
	}

	return bookmarks, nil
}

// Delete removes a bookmark, scoped to owner. Returns domain.ErrNotFound
// when no such row exists for this owner; deleting twice is a no-op on the
// second call, not a fatal error.
func (s *Store) Delete(ctx context.Context, owner, id string) error {
	removed, err := s.client.ZRem(ctx, AllBookmarksKey(owner), id).Result()
	if err != nil {
		return fmt.Errorf("failed to remove bookmark from index: %w", err)
	}
	if removed == 0 {
		return domain.ErrNotFound
	}

	if err := s.client.Del(ctx, BookmarkKey(owner, id)).Err(); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return nil
}
