// Package feed collects candidate story URLs from a site's RSS or Atom
// feed, as an alternative to scraping the hub page's listing markup.
// Feeds change far less often than page layouts, so this listing source
// survives site redesigns.
package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// Source lists story URLs from one feed.
type Source struct {
	FeedURL string

	// Filter keeps only item links containing this substring; feeds
	// mix stories with videos and galleries just like listing pages.
	Filter string

	parser *gofeed.Parser
}

// NewSource creates a feed-backed URL source.
func NewSource(feedURL, filter string) *Source {
	return &Source{
		FeedURL: feedURL,
		Filter:  filter,
		parser:  gofeed.NewParser(),
	}
}

// ListURLs fetches and parses the feed, returning up to limit story
// links in feed order. An empty or unreachable feed is fatal: with no
// candidates there is nothing to scrape.
func (s *Source) ListURLs(ctx context.Context, limit int) ([]string, error) {
	parsed, err := s.parser.ParseURLWithContext(s.FeedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", s.FeedURL, err)
	}

	seen := make(map[string]bool, len(parsed.Items))
	var urls []string
	for _, item := range parsed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" || seen[link] {
			continue
		}
		if s.Filter != "" && !strings.Contains(link, s.Filter) {
			continue
		}
		seen[link] = true
		urls = append(urls, link)
		if limit > 0 && len(urls) == limit {
			break
		}
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("feed %s yielded no story links", s.FeedURL)
	}
	return urls, nil
}
