// ABOUTME: Content-angle suggestions for clusters via a keyword/category affinity table
// ABOUTME: Rules fire in declaration order; unmatched clusters get a dominant-keyword fallback

package angles

import (
	"strings"

	"github.com/harper/scout/internal/cluster"
)

// Rule maps trigger keys to an angle template. A rule fires when any
// trigger equals a cluster keyword or member category. Templates may
// reference the cluster's dominant keyword as {keyword}.
type Rule struct {
	Match    []string
	Template string
}

// FallbackTemplate is used when no rule fires for a cluster.
const FallbackTemplate = "Industry implications of {keyword} and practical takeaways for technical leaders"

// DefaultRules cover the beats scout was written for: voice and
// telecom, AI tooling, developer infrastructure, security, and cloud
// operations.
func DefaultRules() []Rule {
	return []Rule{
		{
			Match:    []string{"voip", "telecom", "vcon", "sip", "ucaas", "carrier"},
			Template: "How {keyword} impacts the VoIP/UCaaS industry and vCon adoption",
		},
		{
			Match:    []string{"ai", "llm", "agents", "ml", "genai"},
			Template: "Bridge the {keyword} development with telecom and voice applications",
		},
		{
			Match:    []string{"devtools", "sdk", "api", "opensource", "tooling"},
			Template: "Developer perspective on {keyword}: practical applications and tooling",
		},
		{
			Match:    []string{"security", "breach", "vulnerability", "cve", "phishing"},
			Template: "What the {keyword} news means for communications security",
		},
		{
			Match:    []string{"cloud", "kubernetes", "serverless", "edge"},
			Template: "Operating {keyword} workloads in production: what actually changes",
		},
	}
}

// Suggester produces angle suggestions for clusters.
type Suggester struct {
	rules     []Rule
	maxAngles int
}

// NewSuggester builds a Suggester over the given rules, capped at
// maxAngles suggestions per cluster. Nil or empty rules fall back to
// DefaultRules.
func NewSuggester(rules []Rule, maxAngles int) *Suggester {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Suggester{rules: rules, maxAngles: maxAngles}
}

// Suggest returns up to maxAngles angles for the cluster, one per
// matching rule in declaration order. When no rule matches, a single
// fallback angle referencing the dominant keyword is returned. A
// maxAngles of zero disables suggestions entirely.
func (s *Suggester) Suggest(c *cluster.Cluster) []string {
	if s.maxAngles <= 0 {
		return nil
	}

	keys := make(map[string]struct{}, c.Keywords.Len())
	for _, tok := range c.Keywords.Sorted() {
		keys[tok] = struct{}{}
	}
	for _, cat := range c.Categories() {
		keys[strings.ToLower(cat)] = struct{}{}
	}

	dominant := c.DominantKeyword()
	var out []string
	for _, r := range s.rules {
		if len(out) >= s.maxAngles {
			break
		}
		for _, trigger := range r.Match {
			if _, ok := keys[strings.ToLower(trigger)]; ok {
				out = append(out, render(r.Template, dominant))
				break
			}
		}
	}

	if len(out) == 0 {
		out = append(out, render(FallbackTemplate, dominant))
	}
	return out
}

func render(template, keyword string) string {
	return strings.ReplaceAll(template, "{keyword}", keyword)
}
