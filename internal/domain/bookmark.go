package domain

import "time"

// Bookmark represents a saved URL enriched with fetched metadata.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier, assigned by the store on
	// insert. Placeholders carry a temporary local id instead; those ids
	// are never sent to the store.
	ID string `json:"id"`

	// Owner is the user the bookmark belongs to. All reads and writes are
	// scoped to it.
	Owner string `json:"owner"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// URL is the normalized absolute URL.
	URL string `json:"url"`

	// Title is the display title. Falls back to the URL's host when
	// extraction fails.
	Title string `json:"title"`

	// Summary is a short plain-text description of the page.
	Summary string `json:"summary"`

	// Favicon is an icon URL derived from the bookmark's host. It is never
	// fetched or validated at save time.
	Favicon string `json:"favicon"`

	// Tags is an ordered list of lowercase, trimmed tags. May be empty.
	Tags []string `json:"tags"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is assigned by the store at persistence time.
	CreatedAt time.Time `json:"created_at"`

	// Pending marks a client-side placeholder that has not been persisted
	// yet. Persisted rows always have Pending == false.
	Pending bool `json:"pending,omitempty"`
}

// Metadata holds the fetched title/summary pair for a URL. Used by the
// metadata cache so repeated saves of the same URL skip the external lookups.
type Metadata struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// HasTag reports whether the bookmark carries the given tag.
func (b *Bookmark) HasTag(tag string) bool {
	for _, t := range b.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
