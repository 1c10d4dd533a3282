package feed

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"
)

const (
	userAgent      = "go-newsbot/1.0 (+https://github.com/anatolykoptev/go-newsbot)"
	maxConcurrency = 4
)

// Fetcher pulls headlines from a set of feed URLs.
type Fetcher struct {
	client     *http.Client
	maxPerFeed int
}

// NewFetcher creates a Fetcher with the given per-request timeout. maxPerFeed
// caps the items taken from each feed; zero means no cap.
func NewFetcher(timeout time.Duration, maxPerFeed int) *Fetcher {
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		maxPerFeed: maxPerFeed,
	}
}

// Fetch retrieves every URL concurrently and returns their items in URL order.
// A failing source is logged and skipped; it never fails the whole fetch.
func (f *Fetcher) Fetch(ctx context.Context, urls []string) []Item {
	results := make([][]Item, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)
	for i, u := range urls {
		g.Go(func() error {
			items, err := f.fetchOne(gctx, u)
			if err != nil {
				slog.Warn("feed fetch failed", slog.String("url", u), slog.Any("error", err))
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()

	var out []Item
	for _, items := range results {
		out = append(out, items...)
	}
	return out
}

func (f *Fetcher) fetchOne(ctx context.Context, rawURL string) ([]Item, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return toItems(parsed, rawURL, f.maxPerFeed), nil
}

// toItems converts parsed entries, naming each by the feed title or, failing
// that, the feed host.
func toItems(parsed *gofeed.Feed, rawURL string, limit int) []Item {
	source := parsed.Title
	if source == "" {
		if u, err := url.Parse(rawURL); err == nil {
			source = u.Hostname()
		}
	}

	entries := parsed.Items
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		if e == nil || e.Title == "" {
			continue
		}
		items = append(items, Item{
			Title:  html.UnescapeString(e.Title),
			Source: source,
		})
	}
	return items
}
