package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/kbazin/marks/internal/domain"
	"github.com/kbazin/marks/internal/logger"
	"github.com/kbazin/marks/internal/utils"
)

// maxTitleBody caps how much of the title-lookup response is read.
const maxTitleBody = 1 << 20

// TitleFetcher retrieves a page's human-readable title from an external
// extraction endpoint. The endpoint takes the target URL as an encoded query
// parameter and answers JSON with an optional "title" field.
type TitleFetcher struct {
	endpoint string
	client   *http.Client
	log      logger.Logger
}

func NewTitleFetcher(endpoint string, client *http.Client, log logger.Logger) *TitleFetcher {
	return &TitleFetcher{
		endpoint: endpoint,
		client:   client,
		log:      log,
	}
}

// Fetch returns the page title for a normalized URL, falling back to the
// URL's hostname on any failure. It never returns an error.
func (f *TitleFetcher) Fetch(ctx context.Context, pageURL string) string {
	fallback := domain.URLHost(pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		f.endpoint+"?url="+url.QueryEscape(pageURL), nil)
	if err != nil {
		f.log.Warn("title lookup degraded",
			logger.String("url", pageURL),
			logger.Error(err))
		return fallback
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Warn("title lookup degraded",
			logger.String("url", pageURL),
			logger.Error(err))
		return fallback
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.log.Warn("title lookup degraded",
			logger.String("url", pageURL),
			logger.Int("status", resp.StatusCode))
		return fallback
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTitleBody))
	if err != nil {
		f.log.Warn("title lookup degraded",
			logger.String("url", pageURL),
			logger.Error(err))
		return fallback
	}

	title := gjson.GetBytes(body, "title").String()
	if title == "" {
		f.log.Debug("title lookup returned no title",
			logger.String("url", pageURL))
		return fallback
	}
	return title
}

// Resolver wraps Fetch for use with JoinAll.
func (f *TitleFetcher) Resolver(pageURL string) Resolver {
	return func(ctx context.Context) string {
		return f.Fetch(ctx, pageURL)
	}
}
