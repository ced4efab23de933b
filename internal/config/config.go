// ABOUTME: Sources-file loading and validation for scan runs
// ABOUTME: Typed config with defaults overlay, JSON or YAML by extension, XDG path resolution

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harper/scout/internal/keywords"
	"github.com/harper/scout/internal/score"
)

// Config is the parsed sources file: which feeds to monitor, how to
// weigh topics, and the clustering/scoring knobs. Loaded once per run
// and read-only afterwards.
type Config struct {
	TopicWeights map[string]float64  `json:"topic_weights" yaml:"topic_weights"`
	Scoring      ScoringConfig       `json:"scoring" yaml:"scoring"`
	Keywords     KeywordsConfig      `json:"keywords" yaml:"keywords"`
	Fetch        FetchConfig         `json:"fetch" yaml:"fetch"`
	Sources      map[string][]Source `json:"sources" yaml:"sources"`
	Angles       []AngleRule         `json:"angles,omitempty" yaml:"angles,omitempty"`
}

// Source is one configured feed within a category.
type Source struct {
	Name string `json:"name" yaml:"name"`
	Feed string `json:"feed" yaml:"feed"`
}

// ScoringConfig holds the clustering and scoring parameters.
type ScoringConfig struct {
	Similarity           string  `json:"similarity" yaml:"similarity"`
	Threshold            float64 `json:"threshold" yaml:"threshold"`
	DiversityBonusFactor float64 `json:"diversity_bonus_factor" yaml:"diversity_bonus_factor"`
	VolumeFactor         float64 `json:"volume_factor" yaml:"volume_factor"`
	VolumeCurve          string  `json:"volume_curve" yaml:"volume_curve"`
	LookbackDays         int     `json:"lookback_days" yaml:"lookback_days"`
	TopClusters          int     `json:"top_clusters" yaml:"top_clusters"`
	MaxAngles            int     `json:"max_angles" yaml:"max_angles"`
}

// KeywordsConfig holds keyword-extraction parameters.
type KeywordsConfig struct {
	MinLength int  `json:"min_length" yaml:"min_length"`
	Stemming  bool `json:"stemming" yaml:"stemming"`
}

// FetchConfig holds feed-fetching parameters.
type FetchConfig struct {
	TimeoutSeconds int `json:"timeout_seconds" yaml:"timeout_seconds"`
	Concurrency    int `json:"concurrency" yaml:"concurrency"`
	Retries        int `json:"retries" yaml:"retries"`
}

// AngleRule is one affinity-table entry: trigger keys and the angle
// template they produce. An empty rule list keeps the built-in table.
type AngleRule struct {
	Match    []string `json:"match" yaml:"match"`
	Template string   `json:"template" yaml:"template"`
}

// Feed is one fetchable feed with its category attached.
type Feed struct {
	Name     string
	URL      string
	Category string
}

// Defaults returns a Config populated with the documented defaults.
// Loading overlays the file's fields on top, so absent fields keep
// these values while explicit zeros stick.
func Defaults() *Config {
	return &Config{
		TopicWeights: map[string]float64{},
		Scoring: ScoringConfig{
			Similarity:           string(keywords.MetricJaccard),
			Threshold:            DefaultSimilarityThreshold,
			DiversityBonusFactor: DefaultDiversityBonus,
			VolumeFactor:         DefaultVolumeFactor,
			VolumeCurve:          string(score.CurveLinear),
			LookbackDays:         DefaultLookbackDays,
			TopClusters:          DefaultTopClusters,
			MaxAngles:            DefaultMaxAngles,
		},
		Keywords: KeywordsConfig{
			MinLength: keywords.DefaultMinLength,
		},
		Fetch: FetchConfig{
			TimeoutSeconds: DefaultFetchTimeoutSeconds,
			Concurrency:    DefaultFetchConcurrency,
			Retries:        DefaultFetchRetries,
		},
		Sources: map[string][]Source{},
	}
}

// Load reads, parses, and validates a sources file. YAML is selected
// by a .yaml/.yml extension, JSON otherwise. A missing or unparseable
// file is an error; so is any config that fails Validate.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading sources file: %w", err)
	}

	cfg := Defaults()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing sources file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sources file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configs that would produce misleading scores or an
// impossible run. It runs before any fetching or clustering starts.
func (c *Config) Validate() error {
	if len(c.TopicWeights) == 0 {
		return fmt.Errorf("topic_weights: at least one weight is required")
	}
	for key, w := range c.TopicWeights {
		if w < 0 {
			return fmt.Errorf("topic_weights[%s]: weight must not be negative, got %v", key, w)
		}
	}

	if _, err := keywords.ParseMetric(c.Scoring.Similarity); err != nil {
		return fmt.Errorf("scoring.similarity: %w", err)
	}
	if c.Scoring.Threshold < 0 || c.Scoring.Threshold > 1 {
		return fmt.Errorf("scoring.threshold: must be within [0,1], got %v", c.Scoring.Threshold)
	}
	if c.Scoring.DiversityBonusFactor < 0 {
		return fmt.Errorf("scoring.diversity_bonus_factor: must not be negative, got %v", c.Scoring.DiversityBonusFactor)
	}
	if c.Scoring.VolumeFactor < 0 {
		return fmt.Errorf("scoring.volume_factor: must not be negative, got %v", c.Scoring.VolumeFactor)
	}
	if _, err := score.ParseCurve(c.Scoring.VolumeCurve); err != nil {
		return fmt.Errorf("scoring.volume_curve: %w", err)
	}
	if c.Scoring.LookbackDays < 1 {
		return fmt.Errorf("scoring.lookback_days: must be at least 1, got %d", c.Scoring.LookbackDays)
	}
	if c.Scoring.TopClusters < 1 {
		return fmt.Errorf("scoring.top_clusters: must be at least 1, got %d", c.Scoring.TopClusters)
	}
	if c.Scoring.MaxAngles < 0 {
		return fmt.Errorf("scoring.max_angles: must not be negative, got %d", c.Scoring.MaxAngles)
	}

	if c.Keywords.MinLength < 1 {
		return fmt.Errorf("keywords.min_length: must be at least 1, got %d", c.Keywords.MinLength)
	}

	if c.Fetch.TimeoutSeconds < 1 {
		return fmt.Errorf("fetch.timeout_seconds: must be at least 1, got %d", c.Fetch.TimeoutSeconds)
	}
	if c.Fetch.Concurrency < 1 {
		return fmt.Errorf("fetch.concurrency: must be at least 1, got %d", c.Fetch.Concurrency)
	}
	if c.Fetch.Retries < 0 {
		return fmt.Errorf("fetch.retries: must not be negative, got %d", c.Fetch.Retries)
	}

	if len(c.Feeds()) == 0 {
		return fmt.Errorf("sources: at least one feed is required")
	}
	for category, sources := range c.Sources {
		for i, s := range sources {
			if strings.TrimSpace(s.Name) == "" {
				return fmt.Errorf("sources[%s][%d]: name is required", category, i)
			}
			if strings.TrimSpace(s.Feed) == "" {
				return fmt.Errorf("sources[%s][%d]: feed URL is required", category, i)
			}
		}
	}

	for i, r := range c.Angles {
		if len(r.Match) == 0 {
			return fmt.Errorf("angles[%d]: match list is required", i)
		}
		if strings.TrimSpace(r.Template) == "" {
			return fmt.Errorf("angles[%d]: template is required", i)
		}
	}
	return nil
}

// Feeds flattens the category map into a deterministic fetch order:
// categories sorted, then declaration order within each category.
func (c *Config) Feeds() []Feed {
	categories := make([]string, 0, len(c.Sources))
	for category := range c.Sources {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var feeds []Feed
	for _, category := range categories {
		for _, s := range c.Sources[category] {
			feeds = append(feeds, Feed{Name: s.Name, URL: s.Feed, Category: category})
		}
	}
	return feeds
}

// Categories returns the configured category names, sorted.
func (c *Config) Categories() []string {
	categories := make([]string, 0, len(c.Sources))
	for category := range c.Sources {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// Timeout returns the per-request fetch timeout as a duration.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// ResolveSourcesPath picks the sources file location: an explicit flag
// value wins, then the SCOUT_SOURCES environment variable, then the
// XDG default.
func ResolveSourcesPath(flagValue string) string {
	if flagValue != "" {
		return ExpandPath(flagValue)
	}
	if env := os.Getenv("SCOUT_SOURCES"); env != "" {
		return ExpandPath(env)
	}
	return DefaultSourcesPath()
}

// DefaultSourcesPath returns the XDG location of the sources file.
func DefaultSourcesPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "scout", "sources.json")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
