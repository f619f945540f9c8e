package seedfile

import (
	"fmt"
	"strings"

	"github.com/kbazin/marks/internal/domain"
	"github.com/kbazin/marks/internal/fetch"
)

// Mapper converts seed entries into bookmark records ready for the store.
// The store assigns ids and timestamps on insert.
type Mapper struct {
	icons fetch.IconResolver
}

func NewMapper(icons fetch.IconResolver) *Mapper {
	return &Mapper{icons: icons}
}

// Map validates and converts the seed. Entries without a parseable href are
// skipped; an entry without a title falls back to its host, matching what
// the ingestion pipeline would produce on a failed title lookup.
func (m *Mapper) Map(seed Seed) ([]*domain.Bookmark, error) {
	bookmarks := make([]*domain.Bookmark, 0, len(seed))

	for _, entry := range seed {
		if entry.Href == "" {
			continue
		}
		normalized, err := domain.NormalizeURL(entry.Href)
		if err != nil {
			continue
		}

		title := strings.TrimSpace(entry.Title)
		if title == "" {
			title = domain.URLHost(normalized)
		}

		tags := make([]string, 0, len(entry.Tags))
		for _, tag := range entry.Tags {
			tag = strings.ToLower(strings.TrimSpace(tag))
			if tag == "" {
				continue
			}
			tags = append(tags, tag)
		}

		bookmarks = append(bookmarks, &domain.Bookmark{
			URL:     normalized,
			Title:   title,
			Summary: fetch.SummaryUnavailable,
			Favicon: m.icons.Resolve(normalized),
			Tags:    tags,
		})
	}

	if len(bookmarks) == 0 {
		return nil, fmt.Errorf("no valid bookmarks found in seed")
	}

	return bookmarks, nil
}
