// ABOUTME: Converts parsed feed entries into uniform article records for clustering
// ABOUTME: Applies the lookback window, future-date guard, and canonical-link dedup

package normalize

import (
	"strings"

	"github.com/harper/scout/internal/config"
	"github.com/harper/scout/internal/models"
	"github.com/harper/scout/internal/parse"
	"github.com/harper/scout/internal/timeutil"
)

// Feed pairs one configured source with its parsed document.
type Feed struct {
	Source config.Feed
	Parsed *parse.ParsedFeed
}

// Articles flattens parsed feeds into article records. Entries without
// a date or link are dropped, entries outside the window are dropped,
// and repeated links keep only their first occurrence. Output order
// follows the input feed order, then entry order within each feed, so
// identical inputs produce identical article sequences.
func Articles(feeds []Feed, window timeutil.Window) []*models.Article {
	seen := make(map[string]struct{})
	var articles []*models.Article

	for _, f := range feeds {
		if f.Parsed == nil {
			continue
		}
		for _, entry := range f.Parsed.Entries {
			if entry.PublishedAt == nil {
				continue
			}
			if !window.Contains(*entry.PublishedAt) {
				continue
			}

			link := CanonicalLink(entry.Link)
			if link == "" {
				continue
			}
			if _, dup := seen[link]; dup {
				continue
			}
			seen[link] = struct{}{}

			articles = append(articles, models.NewArticle(
				entry.Title,
				entry.Summary,
				link,
				f.Source.Name,
				f.Source.Category,
				*entry.PublishedAt,
			))
		}
	}

	return articles
}

// CanonicalLink trims whitespace and drops any fragment so the same
// story linked under different anchors dedups to one article.
func CanonicalLink(link string) string {
	link = strings.TrimSpace(link)
	if i := strings.IndexByte(link, '#'); i >= 0 {
		link = link[:i]
	}
	return link
}
