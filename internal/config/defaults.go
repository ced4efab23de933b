// ABOUTME: Centralized configuration defaults for scout
// ABOUTME: Documented fallbacks for scoring, keyword extraction, and fetching

package config

// Scoring defaults
const (
	DefaultSimilarityThreshold = 0.15
	DefaultDiversityBonus      = 2.0
	DefaultVolumeFactor        = 1.0
	DefaultLookbackDays        = 7
	DefaultTopClusters         = 5
	DefaultMaxAngles           = 2
)

// Fetch defaults
const (
	DefaultFetchTimeoutSeconds = 20
	DefaultFetchConcurrency    = 4
	DefaultFetchRetries        = 2
)
