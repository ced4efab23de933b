// ABOUTME: Keyword set type and the similarity metrics used for clustering
// ABOUTME: Jaccard and overlap coefficients, both symmetric and bounded in [0,1]

package keywords

import (
	"fmt"
	"sort"
	"strings"
)

// Set is a set of normalized keyword tokens.
type Set map[string]struct{}

// NewSet builds a Set from the given tokens.
func NewSet(tokens ...string) Set {
	s := make(Set, len(tokens))
	for _, tok := range tokens {
		s[tok] = struct{}{}
	}
	return s
}

// Add inserts a token into the set.
func (s Set) Add(token string) {
	s[token] = struct{}{}
}

// Contains reports whether the set holds the token.
func (s Set) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// Len returns the number of tokens in the set.
func (s Set) Len() int {
	return len(s)
}

// Sorted returns the tokens in lexicographic order.
func (s Set) Sorted() []string {
	tokens := make([]string, 0, len(s))
	for tok := range s {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return tokens
}

// intersection counts tokens present in both sets, iterating the smaller one.
func intersection(a, b Set) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			n++
		}
	}
	return n
}

// Metric names a keyword-set similarity formula.
type Metric string

const (
	// MetricJaccard is intersection over union.
	MetricJaccard Metric = "jaccard"
	// MetricOverlap is intersection over the smaller set size.
	MetricOverlap Metric = "overlap"
)

// ParseMetric validates a configured metric name.
func ParseMetric(name string) (Metric, error) {
	switch m := Metric(strings.ToLower(name)); m {
	case MetricJaccard, MetricOverlap:
		return m, nil
	default:
		return "", fmt.Errorf("unknown similarity metric %q (supported: %q, %q)", name, MetricJaccard, MetricOverlap)
	}
}

// Similarity applies the metric to two keyword sets. The result is
// symmetric and always within [0,1]; comparisons involving an empty
// set score zero.
func (m Metric) Similarity(a, b Set) float64 {
	switch m {
	case MetricOverlap:
		return Overlap(a, b)
	default:
		return Jaccard(a, b)
	}
}

// Jaccard returns intersection size over union size.
func Jaccard(a, b Set) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	inter := intersection(a, b)
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// Overlap returns intersection size over the smaller set's size.
func Overlap(a, b Set) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	smaller := len(a)
	if len(b) < smaller {
		smaller = len(b)
	}
	return float64(intersection(a, b)) / float64(smaller)
}
