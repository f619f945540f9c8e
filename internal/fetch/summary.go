package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kbazin/marks/internal/logger"
	"github.com/kbazin/marks/internal/utils"
)

const (
	// summaryMaxRunes is where a long summary gets cut.
	summaryMaxRunes = 400
	// summaryMinRunes is the shortest body still considered a usable summary.
	summaryMinRunes = 10
	// maxSummaryBody caps how much of the reader response is read.
	maxSummaryBody = 1 << 20

	// SummaryUnavailable is the generic fallback when no summary could be
	// produced.
	SummaryUnavailable = "Unable to generate a summary for this page."
)

// SummaryFetcher requests a plain-text extraction of a page from an external
// reader endpoint. The target URL is appended to the endpoint path.
type SummaryFetcher struct {
	endpoint  string
	userAgent string
	client    *http.Client
	log       logger.Logger
}

func NewSummaryFetcher(endpoint, userAgent string, client *http.Client, log logger.Logger) *SummaryFetcher {
	return &SummaryFetcher{
		endpoint:  strings.TrimRight(endpoint, "/"),
		userAgent: userAgent,
		client:    client,
		log:       log,
	}
}

// Fetch returns a short plain-text summary for a normalized URL. Every
// failure settles to a fallback message; it never returns an error.
func (f *SummaryFetcher) Fetch(ctx context.Context, pageURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint+"/"+pageURL, nil)
	if err != nil {
		f.log.Warn("summary lookup degraded",
			logger.String("url", pageURL),
			logger.Error(err))
		return SummaryUnavailable
	}
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.log.Warn("summary lookup degraded",
			logger.String("url", pageURL),
			logger.Error(err))
		return SummaryUnavailable
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.log.Warn("summary lookup degraded",
			logger.String("url", pageURL),
			logger.Int("status", resp.StatusCode))
		return fmt.Sprintf("Summary unavailable (status %d).", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSummaryBody))
	if err != nil {
		f.log.Warn("summary lookup degraded",
			logger.String("url", pageURL),
			logger.Error(err))
		return SummaryUnavailable
	}

	text := strings.TrimSpace(string(body))
	runes := []rune(text)
	if len(runes) < summaryMinRunes {
		return SummaryUnavailable
	}
	if len(runes) > summaryMaxRunes {
		return string(runes[:summaryMaxRunes]) + "…"
	}
	return text
}

// Resolver wraps Fetch for use with JoinAll.
func (f *SummaryFetcher) Resolver(pageURL string) Resolver {
	return func(ctx context.Context) string {
		return f.Fetch(ctx, pageURL)
	}
}
