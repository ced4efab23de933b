// ABOUTME: Tests for composite scoring and ranking order
// ABOUTME: Verifies the documented example, matching rules, volume curves, and tie-breaks

package score

import (
	"math"
	"testing"
	"time"

	"github.com/harper/scout/internal/cluster"
	"github.com/harper/scout/internal/keywords"
	"github.com/harper/scout/internal/models"
)

var scoreBase = time.Date(2026, 8, 12, 10, 0, 0, 0, time.UTC)

func buildCluster(t *testing.T, sources []string, published []time.Time, toks ...string) *cluster.Cluster {
	t.Helper()
	inputs := make([]cluster.Input, len(sources))
	for i, src := range sources {
		inputs[i] = cluster.Input{
			Article: &models.Article{
				ID:          src + string(rune('a'+i)),
				SourceName:  src,
				PublishedAt: published[i],
			},
			Keywords: keywords.NewSet(toks...),
		}
	}
	clusters := cluster.NewBuilder(keywords.MetricJaccard, 0.1).Build(inputs)
	if len(clusters) != 1 {
		t.Fatalf("expected test fixture to build 1 cluster, got %d", len(clusters))
	}
	return clusters[0]
}

func TestCompute_DocumentedExample(t *testing.T) {
	// 3 articles from 2 distinct sources sharing keyword "5g":
	// 10 (topic) + 2*2 (diversity) + 1*3 (volume) = 17.
	c := buildCluster(t,
		[]string{"Src A", "Src A", "Src B"},
		[]time.Time{scoreBase, scoreBase.Add(time.Hour), scoreBase.Add(2 * time.Hour)},
		"5g")

	cfg := Config{
		TopicWeights:         map[string]float64{"5g": 10},
		DiversityBonusFactor: 2,
		VolumeFactor:         1,
		VolumeCurve:          CurveLinear,
	}

	br := Compute(c, cfg)
	if br.TopicWeightSum != 10 {
		t.Errorf("TopicWeightSum = %v, expected 10", br.TopicWeightSum)
	}
	if br.DiversityTerm != 4 {
		t.Errorf("DiversityTerm = %v, expected 4", br.DiversityTerm)
	}
	if br.VolumeTerm != 3 {
		t.Errorf("VolumeTerm = %v, expected 3", br.VolumeTerm)
	}
	if br.Total() != 17 {
		t.Errorf("Total() = %v, expected 17", br.Total())
	}
}

func TestCompute_UnmatchedKeywordsContributeZero(t *testing.T) {
	c := buildCluster(t, []string{"Src A"}, []time.Time{scoreBase}, "espresso", "grinder")

	cfg := Config{
		TopicWeights:         map[string]float64{"5g": 10},
		DiversityBonusFactor: 0,
		VolumeFactor:         0,
		VolumeCurve:          CurveLinear,
	}

	if br := Compute(c, cfg); br.Total() != 0 {
		t.Errorf("expected zero score for unmatched keywords, got %v", br.Total())
	}
}

func TestCompute_CategoryMatches(t *testing.T) {
	inputs := []cluster.Input{{
		Article: &models.Article{
			ID:          "a1",
			SourceName:  "Src A",
			Category:    "ai",
			PublishedAt: scoreBase,
		},
		Keywords: keywords.NewSet("transformers"),
	}}
	c := cluster.NewBuilder(keywords.MetricJaccard, 0.1).Build(inputs)[0]

	cfg := Config{
		TopicWeights: map[string]float64{"ai": 6},
		VolumeCurve:  CurveLinear,
	}

	if br := Compute(c, cfg); br.TopicWeightSum != 6 {
		t.Errorf("expected category match to contribute 6, got %v", br.TopicWeightSum)
	}
}

func TestCompute_KeywordAndCategoryCountOnce(t *testing.T) {
	inputs := []cluster.Input{{
		Article: &models.Article{
			ID:          "a1",
			SourceName:  "Src A",
			Category:    "voip",
			PublishedAt: scoreBase,
		},
		Keywords: keywords.NewSet("voip", "codec"),
	}}
	c := cluster.NewBuilder(keywords.MetricJaccard, 0.1).Build(inputs)[0]

	cfg := Config{
		TopicWeights: map[string]float64{"voip": 8},
		VolumeCurve:  CurveLinear,
	}

	if br := Compute(c, cfg); br.TopicWeightSum != 8 {
		t.Errorf("expected a key matching both keyword and category to count once, got %v", br.TopicWeightSum)
	}
}

func TestCompute_LogCurve(t *testing.T) {
	c := buildCluster(t,
		[]string{"Src A", "Src B", "Src C"},
		[]time.Time{scoreBase, scoreBase.Add(time.Hour), scoreBase.Add(2 * time.Hour)},
		"5g")

	cfg := Config{
		TopicWeights: map[string]float64{},
		VolumeFactor: 2,
		VolumeCurve:  CurveLog,
	}

	want := math.Log1p(3) * 2
	if br := Compute(c, cfg); math.Abs(br.VolumeTerm-want) > 1e-9 {
		t.Errorf("VolumeTerm = %v, expected %v", br.VolumeTerm, want)
	}
}

func TestCompute_MonotonicInVolumeFactor(t *testing.T) {
	c := buildCluster(t,
		[]string{"Src A", "Src B"},
		[]time.Time{scoreBase, scoreBase.Add(time.Hour)},
		"5g")

	cfg := Config{TopicWeights: map[string]float64{}, VolumeCurve: CurveLinear}

	prev := -1.0
	for _, factor := range []float64{0, 0.5, 1, 2, 10} {
		cfg.VolumeFactor = factor
		got := Compute(c, cfg).VolumeTerm
		if got < prev {
			t.Errorf("volume term decreased when factor rose to %v: %v < %v", factor, got, prev)
		}
		prev = got
	}
}

func TestRank_OrdersByScoreThenCountThenEarliest(t *testing.T) {
	weights := map[string]float64{"5g": 10, "voip": 10}

	// High score, small cluster.
	high := buildCluster(t, []string{"Src A"}, []time.Time{scoreBase.Add(3 * time.Hour)}, "5g")
	// Same score and count as "high" but published earlier.
	earlier := buildCluster(t, []string{"Src B"}, []time.Time{scoreBase}, "voip")
	// No topic match at all.
	low := buildCluster(t, []string{"Src C"}, []time.Time{scoreBase}, "espresso")
	// Same score as the singles but more members.
	big := buildCluster(t,
		[]string{"Src D", "Src D"},
		[]time.Time{scoreBase.Add(time.Hour), scoreBase.Add(2 * time.Hour)},
		"5g")

	cfg := Config{
		TopicWeights:         weights,
		DiversityBonusFactor: 0,
		VolumeFactor:         0,
		VolumeCurve:          CurveLinear,
	}

	ranked := Rank([]*cluster.Cluster{low, high, earlier, big}, cfg)

	// big wins its score tie on member count; earlier beats high on
	// published time; low trails with zero score.
	wantOrder := []*cluster.Cluster{big, earlier, high, low}
	for i, want := range wantOrder {
		if ranked[i] != want {
			t.Fatalf("rank %d: expected cluster with members %v, got %v", i+1,
				ids(want), ids(ranked[i]))
		}
	}

	if ranked[0].Score != 10 {
		t.Errorf("expected top score 10, got %v", ranked[0].Score)
	}
	if ranked[3].Score != 0 {
		t.Errorf("expected bottom score 0, got %v", ranked[3].Score)
	}
}

func TestRank_LeavesInputSliceOrder(t *testing.T) {
	a := buildCluster(t, []string{"Src A"}, []time.Time{scoreBase}, "espresso")
	b := buildCluster(t, []string{"Src B"}, []time.Time{scoreBase}, "5g")
	in := []*cluster.Cluster{a, b}

	Rank(in, Config{TopicWeights: map[string]float64{"5g": 5}, VolumeCurve: CurveLinear})

	if in[0] != a || in[1] != b {
		t.Error("Rank reordered the caller's slice")
	}
}

func TestParseCurve(t *testing.T) {
	tests := []struct {
		input   string
		want    Curve
		wantErr bool
	}{
		{"linear", CurveLinear, false},
		{"log", CurveLog, false},
		{"Linear", CurveLinear, false},
		{"sqrt", "", true},
		{"", "", true},
	}

	for _, tc := range tests {
		got, err := ParseCurve(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseCurve(%q) expected error, got %v", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCurve(%q) unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseCurve(%q) = %v, expected %v", tc.input, got, tc.want)
		}
	}
}

func ids(c *cluster.Cluster) []string {
	out := make([]string, len(c.Articles))
	for i, a := range c.Articles {
		out[i] = a.ID
	}
	return out
}
