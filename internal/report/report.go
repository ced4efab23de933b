// ABOUTME: Report model for scan results with JSON and Markdown renderings
// ABOUTME: Shapes ranked clusters into the document consumed by the CLI, watch mode, and MCP server

package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harper/scout/internal/cluster"
	"github.com/harper/scout/internal/content"
	"github.com/harper/scout/internal/score"
)

const (
	// MaxKeywords caps the representative keywords listed per cluster.
	MaxKeywords = 5
	// MaxSamples caps the sample articles listed per cluster.
	MaxSamples = 3
	// ExcerptLength bounds the sample excerpt shown in Markdown output.
	ExcerptLength = 160
)

// Report is the result of one scan run.
type Report struct {
	GeneratedAt   time.Time        `json:"generated_at"`
	LookbackDays  int              `json:"lookback_days"`
	TotalArticles int              `json:"total_articles"`
	Clusters      []ClusterSummary `json:"clusters"`
}

// ClusterSummary is one ranked cluster in report form.
type ClusterSummary struct {
	Rank            int             `json:"rank"`
	Score           float64         `json:"score"`
	Keywords        []string        `json:"keywords"`
	DominantKeyword string          `json:"dominant_keyword"`
	ArticleCount    int             `json:"article_count"`
	Sources         []string        `json:"sources"`
	Categories      []string        `json:"categories"`
	SampleTitles    []string        `json:"sample_titles"`
	SuggestedAngles []string        `json:"suggested_angles"`
	Breakdown       score.Breakdown `json:"breakdown"`

	// Samples back the Markdown rendering; the JSON document carries
	// titles only.
	Samples []Sample `json:"-"`
}

// Sample is one representative article within a cluster.
type Sample struct {
	Title   string
	URL     string
	Excerpt string
}

// Build shapes ranked clusters into the report model. The ranked slice
// is expected to be pre-truncated to the clusters worth reporting; the
// angles slice is aligned with it by index and may be nil.
func Build(generatedAt time.Time, lookbackDays, totalArticles int, ranked []*cluster.Cluster, angles [][]string, cfg score.Config) *Report {
	clusters := make([]ClusterSummary, 0, len(ranked))
	for i, c := range ranked {
		summary := ClusterSummary{
			Rank:            i + 1,
			Score:           c.Score,
			Keywords:        c.TopKeywords(MaxKeywords),
			DominantKeyword: c.DominantKeyword(),
			ArticleCount:    c.Count(),
			Sources:         c.Sources(),
			Categories:      c.Categories(),
			SampleTitles:    []string{},
			SuggestedAngles: []string{},
			Breakdown:       score.Compute(c, cfg),
		}
		if angles != nil && i < len(angles) && angles[i] != nil {
			summary.SuggestedAngles = angles[i]
		}
		for _, a := range c.RecentArticles(MaxSamples) {
			summary.SampleTitles = append(summary.SampleTitles, a.Title)
			summary.Samples = append(summary.Samples, Sample{
				Title:   a.Title,
				URL:     a.URL,
				Excerpt: content.Excerpt(a.Summary, ExcerptLength),
			})
		}
		clusters = append(clusters, summary)
	}

	return &Report{
		GeneratedAt:   generatedAt,
		LookbackDays:  lookbackDays,
		TotalArticles: totalArticles,
		Clusters:      clusters,
	}
}

// JSON renders the report as an indented JSON document.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Markdown renders the report as a Markdown document, suitable for
// terminal display through glamour or for pasting into drafting notes.
func (r *Report) Markdown() string {
	var b strings.Builder

	b.WriteString("# Scout Report\n\n")
	fmt.Fprintf(&b, "Generated %s. Monitoring last %d days: %d articles, %d topic clusters.\n\n",
		r.GeneratedAt.Format("2006-01-02 15:04"), r.LookbackDays, r.TotalArticles, len(r.Clusters))

	if len(r.Clusters) == 0 {
		b.WriteString("No trending topics found in the monitored timeframe.\n")
		return b.String()
	}

	for _, c := range r.Clusters {
		fmt.Fprintf(&b, "## #%d (score %.2f): %s\n\n", c.Rank, c.Score, strings.Join(c.Keywords, ", "))

		fmt.Fprintf(&b, "- **Articles:** %d from %s\n", c.ArticleCount, strings.Join(c.Sources, ", "))
		if len(c.Categories) > 0 {
			fmt.Fprintf(&b, "- **Categories:** %s\n", strings.Join(c.Categories, ", "))
		}
		for _, angle := range c.SuggestedAngles {
			fmt.Fprintf(&b, "- **Angle:** %s\n", angle)
		}
		b.WriteString("\n")

		for _, s := range c.Samples {
			fmt.Fprintf(&b, "- [%s](%s)\n", s.Title, s.URL)
			if s.Excerpt != "" {
				fmt.Fprintf(&b, "  %s\n", s.Excerpt)
			}
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
