package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbazin/marks/internal/domain"
	"github.com/kbazin/marks/internal/fetch"
	"github.com/kbazin/marks/internal/list"
	"github.com/kbazin/marks/internal/logger"
)

type fakeStore struct {
	mu        sync.Mutex
	insertErr error
	inserted  []*domain.Bookmark
	nextID    string
}

func (f *fakeStore) Insert(ctx context.Context, owner string, bm *domain.Bookmark) (*domain.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	stored := *bm
	stored.ID = f.nextID
	stored.Owner = owner
	stored.CreatedAt = time.Now()
	f.inserted = append(f.inserted, &stored)
	return &stored, nil
}

func (f *fakeStore) List(ctx context.Context, owner string) ([]*domain.Bookmark, error) {
	return nil, nil
}

func (f *fakeStore) Delete(ctx context.Context, owner, id string) error {
	return nil
}

// fixedSource resolves to a fixed value, optionally blocking until released.
type fixedSource struct {
	value   string
	started chan struct{}
	release chan struct{}
}

func (s *fixedSource) Fetch(ctx context.Context, pageURL string) string {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	return s.value
}

type fakeCache struct {
	entries map[string]*domain.Metadata
	puts    int
}

func (c *fakeCache) GetMetadata(ctx context.Context, url string) (*domain.Metadata, error) {
	return c.entries[url], nil
}

func (c *fakeCache) CacheMetadata(ctx context.Context, url string, meta *domain.Metadata, ttl time.Duration) error {
	if c.entries == nil {
		c.entries = make(map[string]*domain.Metadata)
	}
	c.entries[url] = meta
	c.puts++
	return nil
}

func testIcons() fetch.IconResolver {
	return fetch.IconResolver{
		Template: "https://icons.test/%s",
		Fallback: "/icons/default.svg",
	}
}

func newOrchestrator(store *fakeStore, cache MetadataCache, title, summary SummarySource, ctl *list.Controller) *Orchestrator {
	return New(store, cache, time.Hour, title, summary, testIcons(), ctl, logger.New("error", false))
}

func TestAddHappyPath(t *testing.T) {
	store := &fakeStore{nextID: "row-1"}
	ctl := list.NewController(store, "alice", logger.New("error", false))
	o := newOrchestrator(store, nil,
		&fixedSource{value: "Example Domain"},
		&fixedSource{value: "A page about examples."},
		ctl)

	stored, err := o.Add(context.Background(), "example.com", "News, tools")
	require.NoError(t, err)

	assert.Equal(t, "row-1", stored.ID)
	assert.Equal(t, "alice", stored.Owner)
	assert.Equal(t, "https://example.com/", stored.URL)
	assert.Equal(t, "Example Domain", stored.Title)
	assert.Equal(t, "A page about examples.", stored.Summary)
	assert.Equal(t, "https://icons.test/example.com", stored.Favicon)
	assert.Equal(t, []string{"news", "tools"}, stored.Tags)
	assert.False(t, stored.Pending)

	// The placeholder was replaced in place: one entry, the stored row, at head.
	snap := ctl.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, stored, snap[0])
}

func TestAddShowsPlaceholderBeforeFetchersSettle(t *testing.T) {
	store := &fakeStore{nextID: "row-1"}
	ctl := list.NewController(store, "alice", logger.New("error", false))

	title := &fixedSource{value: "T", started: make(chan struct{}, 1), release: make(chan struct{})}
	summary := &fixedSource{value: "a long enough summary", started: make(chan struct{}, 1), release: make(chan struct{})}
	o := newOrchestrator(store, nil, title, summary, ctl)

	done := make(chan error, 1)
	go func() {
		_, err := o.Add(context.Background(), "example.com", "")
		done <- err
	}()

	// Both fetchers are running: the optimistic placeholder must already
	// be visible at the head of the list.
	<-title.started
	<-summary.started
	snap := ctl.Snapshot()
	require.Len(t, snap, 1)
	assert.True(t, snap[0].Pending)
	assert.Equal(t, "Loading...", snap[0].Title)
	assert.Equal(t, "https://example.com/", snap[0].URL)
	assert.Zero(t, len(store.inserted), "insert must wait for both fetchers")

	close(title.release)
	close(summary.release)
	require.NoError(t, <-done)

	snap = ctl.Snapshot()
	require.Len(t, snap, 1)
	assert.False(t, snap[0].Pending)
	assert.Equal(t, "row-1", snap[0].ID)
}

func TestAddInvalidURLHasNoSideEffects(t *testing.T) {
	store := &fakeStore{nextID: "row-1"}
	ctl := list.NewController(store, "alice", logger.New("error", false))
	title := &fixedSource{value: "T"}
	o := newOrchestrator(store, nil, title, &fixedSource{value: "S"}, ctl)

	for _, input := range []string{"", "   ", "https://", "exa mple.com"} {
		_, err := o.Add(context.Background(), input, "a,b")
		require.ErrorIs(t, err, domain.ErrInvalidURL, "input %q", input)
	}

	assert.Zero(t, ctl.Len(), "no placeholder may be created for bad input")
	assert.Empty(t, store.inserted)
}

func TestAddStoreFailureRollsBack(t *testing.T) {
	store := &fakeStore{insertErr: errors.New("connection reset")}
	ctl := list.NewController(store, "alice", logger.New("error", false))
	ctl.Prepend(&domain.Bookmark{ID: "existing"})
	before := ctl.Snapshot()

	o := newOrchestrator(store, nil,
		&fixedSource{value: "T"}, &fixedSource{value: "S"}, ctl)

	_, err := o.Add(context.Background(), "example.com", "a,b")
	require.Error(t, err)

	var addErr *AddFailedError
	require.ErrorAs(t, err, &addErr)
	assert.Equal(t, "example.com", addErr.RawURL)
	assert.Equal(t, "a,b", addErr.RawTags)

	// The list is exactly what it was before the call: no residual placeholder.
	assert.Equal(t, before, ctl.Snapshot())
}

func TestConcurrentAddsOwnTheirPlaceholders(t *testing.T) {
	store := &fakeStore{nextID: "row"}
	ctl := list.NewController(store, "alice", logger.New("error", false))
	o := newOrchestrator(store, nil,
		&fixedSource{value: "T"}, &fixedSource{value: "S"}, ctl)

	done := make(chan error, 2)
	go func() {
		_, err := o.Add(context.Background(), "one.example.com", "")
		done <- err
	}()
	go func() {
		_, err := o.Add(context.Background(), "two.example.com", "")
		done <- err
	}()
	require.NoError(t, <-done)
	require.NoError(t, <-done)

	snap := ctl.Snapshot()
	require.Len(t, snap, 2)
	urls := map[string]bool{snap[0].URL: true, snap[1].URL: true}
	assert.True(t, urls["https://one.example.com/"])
	assert.True(t, urls["https://two.example.com/"])
	for _, bm := range snap {
		assert.False(t, bm.Pending)
	}
}

func TestMetadataCacheSkipsFetchers(t *testing.T) {
	store := &fakeStore{nextID: "row-1"}
	ctl := list.NewController(store, "alice", logger.New("error", false))
	cache := &fakeCache{entries: map[string]*domain.Metadata{
		"https://example.com/": {Title: "Cached Title", Summary: "Cached summary."},
	}}

	// Sources that would fail the test if consulted.
	title := &fixedSource{value: "fresh"}
	o := newOrchestrator(store, cache, title, &fixedSource{value: "fresh"}, ctl)

	stored, err := o.Add(context.Background(), "example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "Cached Title", stored.Title)
	assert.Equal(t, "Cached summary.", stored.Summary)
	assert.Zero(t, cache.puts, "a cache hit must not be rewritten")
}

func TestMetadataCachePopulatedOnMiss(t *testing.T) {
	store := &fakeStore{nextID: "row-1"}
	ctl := list.NewController(store, "alice", logger.New("error", false))
	cache := &fakeCache{}

	o := newOrchestrator(store, cache,
		&fixedSource{value: "Fresh Title"}, &fixedSource{value: "Fresh summary."}, ctl)

	_, err := o.Add(context.Background(), "example.com", "")
	require.NoError(t, err)
	require.Equal(t, 1, cache.puts)
	assert.Equal(t, "Fresh Title", cache.entries["https://example.com/"].Title)
}
