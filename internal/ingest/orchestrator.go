// Package ingest coordinates the bookmark ingestion pipeline: normalize the
// raw input, show an optimistic placeholder, enrich concurrently from the
// metadata services, persist, then reconcile the visible list with the stored
// row or roll the placeholder back.
package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbazin/marks/internal/domain"
	"github.com/kbazin/marks/internal/fetch"
	"github.com/kbazin/marks/internal/list"
	"github.com/kbazin/marks/internal/logger"
)

const (
	loadingTitle   = "Loading..."
	loadingSummary = "Generating summary..."
)

// Store is the slice of the persistence layer the orchestrator needs.
type Store interface {
	Insert(ctx context.Context, owner string, bm *domain.Bookmark) (*domain.Bookmark, error)
}

// MetadataCache caches fetched title/summary pairs by URL. Optional; both
// methods are best effort.
type MetadataCache interface {
	GetMetadata(ctx context.Context, url string) (*domain.Metadata, error)
	CacheMetadata(ctx context.Context, url string, meta *domain.Metadata, ttl time.Duration) error
}

// TitleSource resolves a page title. Must settle to a usable value.
type TitleSource interface {
	Fetch(ctx context.Context, pageURL string) string
}

// SummarySource resolves a page summary. Must settle to a usable value.
type SummarySource interface {
	Fetch(ctx context.Context, pageURL string) string
}

// AddFailedError is returned when the store rejected the final record. It
// carries the original raw input so the caller can restore it for a retry
// without the user retyping.
type AddFailedError struct {
	RawURL  string
	RawTags string
	Err     error
}

func (e *AddFailedError) Error() string { return "failed to add bookmark" }

func (e *AddFailedError) Unwrap() error { return e.Err }

// Orchestrator runs the ingestion pipeline against one session's list.
type Orchestrator struct {
	store     Store
	cache     MetadataCache // nil disables metadata caching
	cacheTTL  time.Duration
	titles    TitleSource
	summaries SummarySource
	icons     fetch.IconResolver
	list      *list.Controller
	log       logger.Logger
}

func New(
	store Store,
	cache MetadataCache,
	cacheTTL time.Duration,
	titles TitleSource,
	summaries SummarySource,
	icons fetch.IconResolver,
	ctl *list.Controller,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		store:     store,
		cache:     cache,
		cacheTTL:  cacheTTL,
		titles:    titles,
		summaries: summaries,
		icons:     icons,
		list:      ctl,
		log:       log,
	}
}

// Add ingests one raw URL with its raw tag string for the list's owner.
//
// The placeholder is visible in the list before either fetcher starts, and
// the store insert happens only after both fetchers have settled. A failure
// after the placeholder was inserted always removes it: no partial or
// duplicate bookmark is ever left behind. Concurrent Adds each own their
// placeholder via a distinct temporary id, so reconciling one never touches
// another's.
func (o *Orchestrator) Add(ctx context.Context, rawURL, rawTags string) (*domain.Bookmark, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, domain.ErrInvalidURL
	}

	normalized, err := domain.NormalizeURL(rawURL)
	if err != nil {
		// No placeholder, no network: the malformed input never gets
		// further than this.
		return nil, err
	}

	tags := domain.ParseTags(rawTags)
	favicon := o.icons.Resolve(normalized)

	placeholder := &domain.Bookmark{
		ID:      "pending-" + uuid.NewString(),
		Owner:   o.list.Owner(),
		URL:     normalized,
		Title:   loadingTitle,
		Summary: loadingSummary,
		Favicon: favicon,
		Tags:    tags,
		Pending: true,
	}
	o.list.Prepend(placeholder)

	meta := o.resolveMetadata(ctx, normalized)

	record := &domain.Bookmark{
		URL:     normalized,
		Title:   meta.Title,
		Summary: meta.Summary,
		Favicon: favicon,
		Tags:    tags,
	}

	stored, err := o.store.Insert(ctx, o.list.Owner(), record)
	if err != nil {
		o.list.Remove(placeholder.ID)
		o.log.Error("bookmark insert failed, placeholder rolled back",
			logger.String("url", normalized),
			logger.Error(err))
		return nil, &AddFailedError{RawURL: rawURL, RawTags: rawTags, Err: err}
	}

	if !o.list.Replace(placeholder.ID, stored) {
		// Placeholder was removed while we were persisting (e.g. the user
		// deleted it): keep the stored row out of the visible list, its
		// next load will show it.
		o.log.Warn("placeholder gone before reconciliation",
			logger.String("url", normalized),
			logger.String("id", stored.ID))
	}

	o.log.Info("bookmark added",
		logger.String("id", stored.ID),
		logger.String("url", stored.URL),
		logger.Strings("tags", stored.Tags))
	return stored, nil
}

// resolveMetadata returns the title/summary for a URL, consulting the cache
// first and running both fetchers concurrently on a miss. Both fetchers
// settle to fallbacks on their own, so the result is always complete.
func (o *Orchestrator) resolveMetadata(ctx context.Context, pageURL string) *domain.Metadata {
	if o.cache != nil {
		cached, err := o.cache.GetMetadata(ctx, pageURL)
		if err != nil {
			o.log.Debug("metadata cache read failed",
				logger.String("url", pageURL),
				logger.Error(err))
		} else if cached != nil {
			return cached
		}
	}

	results := fetch.JoinAll(ctx,
		func(ctx context.Context) string { return o.titles.Fetch(ctx, pageURL) },
		func(ctx context.Context) string { return o.summaries.Fetch(ctx, pageURL) },
	)
	meta := &domain.Metadata{Title: results[0], Summary: results[1]}

	if o.cache != nil {
		if err := o.cache.CacheMetadata(ctx, pageURL, meta, o.cacheTTL); err != nil {
			o.log.Debug("metadata cache write failed",
				logger.String("url", pageURL),
				logger.Error(err))
		}
	}
	return meta
}
