package fetch

import (
	"fmt"

	"github.com/kbazin/marks/internal/domain"
)

// IconResolver derives a favicon URL from a bookmark's host via a fixed icon
// service template. Purely computational, no request is made; the display
// layer resolves the icon at render time.
type IconResolver struct {
	// Template is the icon service URL with a single %s for the hostname.
	Template string
	// Fallback is a local icon path used when no host can be derived.
	Fallback string
}

// Resolve returns the icon URL for a normalized bookmark URL. Input that
// cannot be parsed (should not occur post-normalization) yields the fallback.
func (r IconResolver) Resolve(pageURL string) string {
	host := domain.URLHost(pageURL)
	if host == "" {
		return r.Fallback
	}
	return fmt.Sprintf(r.Template, host)
}
