// ABOUTME: Greedy single-pass topic clustering over article keyword sets
// ABOUTME: Articles join the best-matching cluster union at or above a similarity threshold

package cluster

import (
	"sort"
	"time"

	"github.com/harper/scout/internal/keywords"
	"github.com/harper/scout/internal/models"
)

// Input pairs one article with its extracted keyword set.
type Input struct {
	Article  *models.Article
	Keywords keywords.Set
}

// Cluster is a group of topically related articles. Keywords is the
// union of member keyword sets; Freq counts how many members carry
// each keyword. Clusters are mutated only while the Builder runs and
// are read-only once scoring begins.
type Cluster struct {
	Articles []*models.Article // members in processing order (published ascending)
	Keywords keywords.Set      // union of member keyword sets
	Freq     map[string]int    // member count per keyword
	Score    float64           // assigned by the scorer
}

// Builder partitions articles into clusters by keyword-set similarity.
type Builder struct {
	metric    keywords.Metric
	threshold float64
}

// NewBuilder returns a Builder using the given similarity metric and
// threshold. Two keyword sets are considered related when their
// similarity is at or above the threshold.
func NewBuilder(metric keywords.Metric, threshold float64) *Builder {
	return &Builder{metric: metric, threshold: threshold}
}

// Build partitions the inputs into clusters. Inputs are processed in
// published_at order with ties broken by article ID; each article is
// compared against every existing cluster's keyword union and joins
// the best match at or above the threshold, with the earliest-created
// cluster winning ties, or founds a new cluster otherwise. Articles
// with empty keyword sets are skipped entirely: they can never match
// anything. The same input always produces the same partition in the
// same order.
func (b *Builder) Build(inputs []Input) []*Cluster {
	ordered := make([]Input, 0, len(inputs))
	for _, in := range inputs {
		if in.Keywords.Len() > 0 {
			ordered = append(ordered, in)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].Article, ordered[j].Article
		if !a.PublishedAt.Equal(b.PublishedAt) {
			return a.PublishedAt.Before(b.PublishedAt)
		}
		return a.ID < b.ID
	})

	var clusters []*Cluster
	for _, in := range ordered {
		best := -1
		bestSim := -1.0
		for ci, c := range clusters {
			sim := b.metric.Similarity(in.Keywords, c.Keywords)
			if sim >= b.threshold && sim > bestSim {
				best = ci
				bestSim = sim
			}
		}
		if best >= 0 {
			clusters[best].absorb(in)
		} else {
			clusters = append(clusters, newCluster(in))
		}
	}
	return clusters
}

func newCluster(in Input) *Cluster {
	c := &Cluster{
		Articles: []*models.Article{in.Article},
		Keywords: make(keywords.Set, in.Keywords.Len()),
		Freq:     make(map[string]int, in.Keywords.Len()),
	}
	for tok := range in.Keywords {
		c.Keywords.Add(tok)
		c.Freq[tok] = 1
	}
	return c
}

func (c *Cluster) absorb(in Input) {
	c.Articles = append(c.Articles, in.Article)
	for tok := range in.Keywords {
		c.Keywords.Add(tok)
		c.Freq[tok]++
	}
}

// Count returns the number of member articles.
func (c *Cluster) Count() int {
	return len(c.Articles)
}

// Sources returns the distinct source names among members, sorted.
func (c *Cluster) Sources() []string {
	return c.distinct(func(a *models.Article) string { return a.SourceName })
}

// Categories returns the distinct categories among members, sorted.
func (c *Cluster) Categories() []string {
	return c.distinct(func(a *models.Article) string { return a.Category })
}

func (c *Cluster) distinct(key func(*models.Article) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, a := range c.Articles {
		k := key(a)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// EarliestPublished returns the oldest member timestamp.
func (c *Cluster) EarliestPublished() time.Time {
	if len(c.Articles) == 0 {
		return time.Time{}
	}
	earliest := c.Articles[0].PublishedAt
	for _, a := range c.Articles[1:] {
		if a.PublishedAt.Before(earliest) {
			earliest = a.PublishedAt
		}
	}
	return earliest
}

// RecentArticles returns up to n members, most recent first, ties by ID.
func (c *Cluster) RecentArticles(n int) []*models.Article {
	out := make([]*models.Article, len(c.Articles))
	copy(out, c.Articles)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PublishedAt.Equal(out[j].PublishedAt) {
			return out[i].PublishedAt.After(out[j].PublishedAt)
		}
		return out[i].ID < out[j].ID
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// DominantKeyword returns the keyword carried by the most members,
// ties resolved lexicographically. Empty for a cluster with no keywords.
func (c *Cluster) DominantKeyword() string {
	best := ""
	bestN := 0
	for _, tok := range c.Keywords.Sorted() {
		if n := c.Freq[tok]; n > bestN {
			best, bestN = tok, n
		}
	}
	return best
}

// TopKeywords returns up to n keywords ranked by member frequency,
// ties resolved lexicographically.
func (c *Cluster) TopKeywords(n int) []string {
	toks := c.Keywords.Sorted()
	sort.SliceStable(toks, func(i, j int) bool {
		return c.Freq[toks[i]] > c.Freq[toks[j]]
	})
	if n >= 0 && n < len(toks) {
		toks = toks[:n]
	}
	return toks
}
