package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/kbazin/marks/internal/domain"
	"github.com/kbazin/marks/internal/logger"
	"github.com/kbazin/marks/internal/sources/seedfile"
)

// ImportStore is the store surface the importer needs: listing existing rows
// for deduplication and inserting new ones.
type ImportStore interface {
	List(ctx context.Context, owner string) ([]*domain.Bookmark, error)
	Insert(ctx context.Context, owner string, bm *domain.Bookmark) (*domain.Bookmark, error)
}

// SeedImporter imports bookmarks from a seed yaml into one owner's
// collection: once at startup, on a manual trigger, and optionally on an
// interval. Rows whose URL already exists for the owner are skipped, so
// reimporting is idempotent.
type SeedImporter struct {
	loader        *seedfile.Loader
	mapper        *seedfile.Mapper
	store         ImportStore
	owner         string
	logger        logger.Logger
	interval      time.Duration // 0 = no periodic reimport
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

func NewSeedImporter(
	seedFile string,
	mapper *seedfile.Mapper,
	store ImportStore,
	owner string,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *SeedImporter {
	return &SeedImporter{
		loader:        seedfile.NewLoader(seedFile),
		mapper:        mapper,
		store:         store,
		owner:         owner,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start runs the initial import, then listens for manual triggers and the
// optional reimport interval.
func (si *SeedImporter) Start(ctx context.Context) error {
	if err := si.Import(ctx); err != nil {
		return fmt.Errorf("initial seed import failed: %w", err)
	}

	var tickCh <-chan time.Time
	var ticker *time.Ticker
	if si.interval > 0 {
		ticker = time.NewTicker(si.interval)
		tickCh = ticker.C
	}

	go func() {
		if ticker != nil {
			defer ticker.Stop()
		}
		for {
			select {
			case <-tickCh:
				if err := si.Import(ctx); err != nil {
					si.logger.Error("failed to reimport seed",
						logger.Error(err))
				}
			case <-si.manualTrigger:
				si.logger.Info("manual seed import triggered")
				if err := si.Import(ctx); err != nil {
					si.logger.Error("failed to reimport seed",
						logger.Error(err))
				}
			case <-si.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the importer.
func (si *SeedImporter) Stop() {
	close(si.stopCh)
}

// Import loads the seed file and inserts every entry whose URL the owner
// does not have yet.
func (si *SeedImporter) Import(ctx context.Context) error {
	si.logger.Info("importing bookmarks from seed file",
		logger.String("owner", si.owner))

	seed, err := si.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load seed: %w", err)
	}

	candidates, err := si.mapper.Map(seed)
	if err != nil {
		return fmt.Errorf("failed to map seed: %w", err)
	}

	existing, err := si.store.List(ctx, si.owner)
	if err != nil {
		return fmt.Errorf("failed to list existing bookmarks: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, bm := range existing {
		known[bm.URL] = true
	}

	imported := 0
	for _, bm := range candidates {
		if known[bm.URL] {
			continue
		}
		if _, err := si.store.Insert(ctx, si.owner, bm); err != nil {
			si.logger.Warn("failed to import seed bookmark",
				logger.String("url", bm.URL),
				logger.Error(err))
			continue
		}
		known[bm.URL] = true
		imported++
	}

	si.logger.Info("seed import finished",
		logger.Int("candidates", len(candidates)),
		logger.Int("imported", imported))
	return nil
}
