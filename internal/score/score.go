// ABOUTME: Composite cluster scoring from topic weights, source diversity, and volume
// ABOUTME: Deterministic ranking: score descending, then member count, then earliest published

package score

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/harper/scout/internal/cluster"
)

// Curve names how member volume feeds the volume term.
type Curve string

const (
	// CurveLinear uses the raw member count.
	CurveLinear Curve = "linear"
	// CurveLog dampens the count with log(1+count).
	CurveLog Curve = "log"
)

// ParseCurve validates a configured volume curve name.
func ParseCurve(name string) (Curve, error) {
	switch c := Curve(strings.ToLower(name)); c {
	case CurveLinear, CurveLog:
		return c, nil
	default:
		return "", fmt.Errorf("unknown volume curve %q (supported: %q, %q)", name, CurveLinear, CurveLog)
	}
}

// Config holds the scoring weights. All factors are non-negative; the
// config loader rejects anything else before scoring runs.
type Config struct {
	TopicWeights         map[string]float64
	DiversityBonusFactor float64
	VolumeFactor         float64
	VolumeCurve          Curve
}

// Breakdown records the three score components for one cluster, so a
// report can show exactly why a cluster ranked where it did.
type Breakdown struct {
	TopicWeightSum float64 `json:"topic_weight_sum"`
	DiversityTerm  float64 `json:"diversity_term"`
	VolumeTerm     float64 `json:"volume_term"`
}

// Total is the composite score: the plain sum of the components.
func (b Breakdown) Total() float64 {
	return b.TopicWeightSum + b.DiversityTerm + b.VolumeTerm
}

// Compute scores one cluster. Topic weights are matched against the
// union of cluster keywords and member categories; each distinct key
// counts once. The diversity term multiplies the distinct source count
// by the configured factor; the volume term multiplies the (possibly
// dampened) member count by its factor. Pure function: neither the
// cluster nor the config is modified.
func Compute(c *cluster.Cluster, cfg Config) Breakdown {
	var br Breakdown

	matched := make(map[string]struct{})
	addWeight := func(key string) {
		w, ok := cfg.TopicWeights[key]
		if !ok {
			return
		}
		if _, seen := matched[key]; seen {
			return
		}
		matched[key] = struct{}{}
		br.TopicWeightSum += w
	}
	for _, tok := range c.Keywords.Sorted() {
		addWeight(tok)
	}
	for _, cat := range c.Categories() {
		addWeight(cat)
	}

	br.DiversityTerm = float64(len(c.Sources())) * cfg.DiversityBonusFactor

	volume := float64(c.Count())
	if cfg.VolumeCurve == CurveLog {
		volume = math.Log1p(volume)
	}
	br.VolumeTerm = volume * cfg.VolumeFactor

	return br
}

// Rank scores every cluster and returns them ordered best-first:
// score descending, ties to the larger member count, then to the
// earliest published member, then to cluster creation order. The
// input slice is left untouched apart from the Score field.
func Rank(clusters []*cluster.Cluster, cfg Config) []*cluster.Cluster {
	ranked := make([]*cluster.Cluster, len(clusters))
	copy(ranked, clusters)

	for _, c := range ranked {
		c.Score = Compute(c, cfg).Total()
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].Count() != ranked[j].Count() {
			return ranked[i].Count() > ranked[j].Count()
		}
		ei, ej := ranked[i].EarliestPublished(), ranked[j].EarliestPublished()
		if !ei.Equal(ej) {
			return ei.Before(ej)
		}
		return false
	})
	return ranked
}
