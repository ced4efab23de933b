// ABOUTME: Orchestrates one scan run: fetch, parse, normalize, cluster, score, angles, report
// ABOUTME: Shared by the scan command, watch mode, and the MCP server

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/scout/internal/angles"
	"github.com/harper/scout/internal/cluster"
	"github.com/harper/scout/internal/config"
	"github.com/harper/scout/internal/content"
	"github.com/harper/scout/internal/fetch"
	"github.com/harper/scout/internal/keywords"
	"github.com/harper/scout/internal/normalize"
	"github.com/harper/scout/internal/parse"
	"github.com/harper/scout/internal/report"
	"github.com/harper/scout/internal/score"
	"github.com/harper/scout/internal/timeutil"
)

// Options adjust one run relative to the loaded sources file.
// Zero values defer to the config.
type Options struct {
	LookbackDays int
	TopClusters  int
	Category     string
	Now          time.Time
}

// Events receives progress callbacks during a run. Fields may be nil,
// as may the struct itself.
type Events struct {
	// FeedDone fires once per configured feed, in config order, with
	// the parsed entry count or the fetch/parse error.
	FeedDone func(feed config.Feed, entries int, err error)
}

func (e *Events) feedDone(feed config.Feed, entries int, err error) {
	if e != nil && e.FeedDone != nil {
		e.FeedDone(feed, entries, err)
	}
}

// Warning describes one feed that could not contribute articles.
type Warning struct {
	Feed config.Feed
	Err  error
}

// Result bundles the report with run statistics.
type Result struct {
	Report        *report.Report
	TotalArticles int
	Warnings      []Warning
}

// Run executes one scan. Individual feed failures become warnings and
// reduce the input set; they never abort the run. Zero articles is not
// an error here, the report simply has no clusters.
func Run(ctx context.Context, cfg *config.Config, opts Options, events *Events) (*Result, error) {
	days := opts.LookbackDays
	if days <= 0 {
		days = cfg.Scoring.LookbackDays
	}
	top := opts.TopClusters
	if top <= 0 {
		top = cfg.Scoring.TopClusters
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	metric, err := keywords.ParseMetric(cfg.Scoring.Similarity)
	if err != nil {
		return nil, fmt.Errorf("scoring.similarity: %w", err)
	}
	curve, err := score.ParseCurve(cfg.Scoring.VolumeCurve)
	if err != nil {
		return nil, fmt.Errorf("scoring.volume_curve: %w", err)
	}

	feeds := cfg.Feeds()
	if opts.Category != "" {
		var filtered []config.Feed
		for _, f := range feeds {
			if f.Category == opts.Category {
				filtered = append(filtered, f)
			}
		}
		if len(filtered) == 0 {
			return nil, fmt.Errorf("no sources in category %q", opts.Category)
		}
		feeds = filtered
	}

	client := fetch.NewClient(cfg.Fetch)
	fetched := client.FetchAll(ctx, feeds)

	var parsedFeeds []normalize.Feed
	var warnings []Warning
	for _, res := range fetched {
		if res.Err != nil {
			warnings = append(warnings, Warning{Feed: res.Feed, Err: res.Err})
			events.feedDone(res.Feed, 0, res.Err)
			continue
		}

		parsed, err := parse.Parse(res.Body)
		if err != nil {
			warnings = append(warnings, Warning{Feed: res.Feed, Err: err})
			events.feedDone(res.Feed, 0, err)
			continue
		}

		parsedFeeds = append(parsedFeeds, normalize.Feed{Source: res.Feed, Parsed: parsed})
		events.feedDone(res.Feed, len(parsed.Entries), nil)
	}

	window := timeutil.Lookback(now, days)
	articles := normalize.Articles(parsedFeeds, window)

	extractor := keywords.NewExtractor(cfg.Keywords.MinLength, cfg.Keywords.Stemming)
	inputs := make([]cluster.Input, 0, len(articles))
	for _, a := range articles {
		inputs = append(inputs, cluster.Input{
			Article:  a,
			Keywords: extractor.Extract(a.Title, content.ToText(a.Summary)),
		})
	}

	scoreCfg := score.Config{
		TopicWeights:         cfg.TopicWeights,
		DiversityBonusFactor: cfg.Scoring.DiversityBonusFactor,
		VolumeFactor:         cfg.Scoring.VolumeFactor,
		VolumeCurve:          curve,
	}

	ranked := score.Rank(cluster.NewBuilder(metric, cfg.Scoring.Threshold).Build(inputs), scoreCfg)
	if len(ranked) > top {
		ranked = ranked[:top]
	}

	suggester := angles.NewSuggester(angleRules(cfg), cfg.Scoring.MaxAngles)
	angleSets := make([][]string, len(ranked))
	for i, c := range ranked {
		angleSets[i] = suggester.Suggest(c)
	}

	return &Result{
		Report:        report.Build(now, days, len(articles), ranked, angleSets, scoreCfg),
		TotalArticles: len(articles),
		Warnings:      warnings,
	}, nil
}

// angleRules converts configured angle rules; an empty list keeps the
// suggester's built-in table.
func angleRules(cfg *config.Config) []angles.Rule {
	rules := make([]angles.Rule, 0, len(cfg.Angles))
	for _, r := range cfg.Angles {
		rules = append(rules, angles.Rule{Match: r.Match, Template: r.Template})
	}
	return rules
}
