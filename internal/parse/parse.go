// ABOUTME: RSS/Atom feed parsing using gofeed library
// ABOUTME: Flattens gofeed items into the entry shape the normalizer consumes

package parse

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// ParsedFeed represents a parsed feed document
type ParsedFeed struct {
	Title   string
	Entries []ParsedEntry
}

// ParsedEntry is one feed item with the fields scanning cares about.
// PublishedAt is nil when the item carries no usable date.
type ParsedEntry struct {
	Title       string
	Link        string
	Summary     string
	PublishedAt *time.Time
}

// Parse parses RSS or Atom feed data and returns a normalized ParsedFeed
func Parse(data []byte) (*ParsedFeed, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseString(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	parsed := &ParsedFeed{
		Title:   feed.Title,
		Entries: make([]ParsedEntry, 0, len(feed.Items)),
	}

	for _, item := range feed.Items {
		entry := ParsedEntry{
			Title: strings.TrimSpace(item.Title),
			Link:  item.Link,
		}

		// Fallback Link to a URL-shaped GUID if empty
		if entry.Link == "" && strings.HasPrefix(item.GUID, "http") {
			entry.Link = item.GUID
		}

		// Use PublishedParsed or fallback to UpdatedParsed
		if item.PublishedParsed != nil {
			entry.PublishedAt = item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			entry.PublishedAt = item.UpdatedParsed
		}

		// Prefer the short summary; some feeds only carry full content
		if item.Description != "" {
			entry.Summary = item.Description
		} else {
			entry.Summary = item.Content
		}
		entry.Summary = strings.TrimSpace(entry.Summary)

		parsed.Entries = append(parsed.Entries, entry)
	}

	return parsed, nil
}
