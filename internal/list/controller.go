// Package list owns the in-memory bookmark collection of one user session:
// the ordered sequence shown to the display layer, the active tag filter, and
// the derived tag index. All mutations build a fresh slice from the previous
// snapshot, so overlapping completions of concurrent adds and deletes never
// lose each other's updates.
package list

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sort"
	"sync"

	"github.com/kbazin/marks/internal/domain"
	"github.com/kbazin/marks/internal/logger"
)

// Store is the slice of the persistence layer the controller needs.
type Store interface {
	List(ctx context.Context, owner string) ([]*domain.Bookmark, error)
	Delete(ctx context.Context, owner, id string) error
}

// Controller holds the bookmark list of one authenticated user.
type Controller struct {
	mu     sync.RWMutex
	owner  string
	store  Store
	log    logger.Logger
	items  []*domain.Bookmark
	filter map[string]struct{}
}

// NewController creates a controller for owner. Call Load before serving
// views.
func NewController(store Store, owner string, log logger.Logger) *Controller {
	return &Controller{
		owner:  owner,
		store:  store,
		log:    log,
		items:  []*domain.Bookmark{},
		filter: make(map[string]struct{}),
	}
}

// Owner returns the user this controller is scoped to.
func (c *Controller) Owner() string {
	return c.owner
}

// Load replaces the list with the stored rows of this owner, newest first.
// Called once per session.
func (c *Controller) Load(ctx context.Context) error {
	items, err := c.store.List(ctx, c.owner)
	if err != nil {
		return fmt.Errorf("failed to load bookmarks: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	return nil
}

// Prepend inserts a bookmark at the head of the list.
func (c *Controller) Prepend(bm *domain.Bookmark) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]*domain.Bookmark, 0, len(c.items)+1)
	next = append(next, bm)
	next = append(next, c.items...)
	c.items = next
}

// Replace swaps the bookmark with the given id for another record, keeping
// its position. Returns false when no such id is present.
func (c *Controller) Replace(id string, with *domain.Bookmark) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, bm := range c.items {
		if bm.ID == id {
			next := make([]*domain.Bookmark, len(c.items))
			copy(next, c.items)
			next[i] = with
			c.items = next
			return true
		}
	}
	return false
}

// Remove drops the bookmark with the given id from the in-memory list only.
// Returns false when no such id is present.
func (c *Controller) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, bm := range c.items {
		if bm.ID == id {
			next := make([]*domain.Bookmark, 0, len(c.items)-1)
			next = append(next, c.items[:i]...)
			next = append(next, c.items[i+1:]...)
			c.items = next
			return true
		}
	}
	return false
}

// Delete removes a bookmark from the store and, on success, from the list.
// A row already missing at the store is reconciled as absent locally. Any
// other store failure leaves the list unchanged.
func (c *Controller) Delete(ctx context.Context, id string) error {
	err := c.store.Delete(ctx, c.owner, id)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		c.log.Debug("delete of missing bookmark, reconciling list",
			logger.String("id", id))
	default:
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	c.Remove(id)
	return nil
}

// ToggleTagFilter adds the tag to the active filter set if absent, removes it
// if present.
func (c *Controller) ToggleTagFilter(tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.filter[tag]; ok {
		delete(c.filter, tag)
		return
	}
	c.filter[tag] = struct{}{}
}

// ActiveFilters returns the currently selected filter tags, sorted.
func (c *Controller) ActiveFilters() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	tags := make([]string, 0, len(c.filter))
	for tag := range c.filter {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Tags returns every distinct tag present across the list, in first-seen
// order.
func (c *Controller) Tags() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	tags := make([]string, 0)
	for _, bm := range c.items {
		for _, tag := range bm.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}

// FilteredView returns a lazy, restartable sequence over the current
// snapshot. With an empty filter set it yields every bookmark; otherwise it
// yields every bookmark whose tags intersect the filter set (union
// semantics). Mutations after the call do not affect an iteration already
// obtained.
func (c *Controller) FilteredView() iter.Seq[*domain.Bookmark] {
	c.mu.RLock()
	items := c.items
	active := make(map[string]struct{}, len(c.filter))
	for tag := range c.filter {
		active[tag] = struct{}{}
	}
	c.mu.RUnlock()

	return func(yield func(*domain.Bookmark) bool) {
		for _, bm := range items {
			if len(active) > 0 && !intersects(bm.Tags, active) {
				continue
			}
			if !yield(bm) {
				return
			}
		}
	}
}

// Reorder moves the bookmark at index from to index to. Display-only: the
// new order lives in this session's memory and is lost on reload.
func (c *Controller) Reorder(from, to int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if from < 0 || from >= len(c.items) || to < 0 || to >= len(c.items) {
		return fmt.Errorf("reorder out of range: %d -> %d (len %d)", from, to, len(c.items))
	}
	if from == to {
		return nil
	}

	next := make([]*domain.Bookmark, 0, len(c.items))
	next = append(next, c.items...)
	moved := next[from]
	next = append(next[:from], next[from+1:]...)

	rest := make([]*domain.Bookmark, 0, len(c.items))
	rest = append(rest, next[:to]...)
	rest = append(rest, moved)
	rest = append(rest, next[to:]...)
	c.items = rest
	return nil
}

// Len returns the number of bookmarks in the list, placeholders included.
func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Snapshot returns a copy of the current sequence.
func (c *Controller) Snapshot() []*domain.Bookmark {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*domain.Bookmark, len(c.items))
	copy(out, c.items)
	return out
}

func intersects(tags []string, active map[string]struct{}) bool {
	for _, tag := range tags {
		if _, ok := active[tag]; ok {
			return true
		}
	}
	return false
}
