// ABOUTME: Article model representing a single normalized feed entry
// ABOUTME: IDs are derived from the article URL so repeated runs see identical records

package models

import (
	"time"

	"github.com/google/uuid"
)

// Article is one normalized feed entry. Articles are built during the
// fetch/normalize stage and read-only afterwards; nothing is persisted
// between runs.
type Article struct {
	ID          string    // Deterministic identifier derived from URL
	Title       string    // Entry title, plain text
	Summary     string    // Entry summary/content, may contain HTML
	URL         string    // Canonical entry link
	SourceName  string    // Configured name of the originating feed
	Category    string    // Configured category of the originating feed
	PublishedAt time.Time // Entry publication time
}

// NewArticle creates an Article with an ID derived from the URL.
// The same URL always yields the same ID, which keeps clustering
// order stable across runs.
func NewArticle(title, summary, url, sourceName, category string, publishedAt time.Time) *Article {
	return &Article{
		ID:          ArticleID(url),
		Title:       title,
		Summary:     summary,
		URL:         url,
		SourceName:  sourceName,
		Category:    category,
		PublishedAt: publishedAt,
	}
}

// ArticleID returns the deterministic ID for an article URL.
func ArticleID(url string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(url)).String()
}
