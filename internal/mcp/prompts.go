// ABOUTME: MCP prompt definitions and handlers
// ABOUTME: Provides workflow templates for turning scan results into blog content

package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.registerDraftPostPrompt()
	s.registerWeeklyRoundupPrompt()
}

func (s *Server) registerDraftPostPrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "draft-post",
			Description: "Draft a blog post from the current trending clusters, using the suggested angles and sample articles as source material",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "topic",
					Description: "Optional keyword to focus on. If omitted, use the top-ranked cluster",
					Required:    false,
				},
			},
		},
		s.handleDraftPost,
	)
}

//nolint:funlen // Prompt handlers contain large template strings
func (s *Server) handleDraftPost(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	focus := "the top-ranked cluster"
	if req.Params.Arguments != nil {
		if topic, ok := req.Params.Arguments["topic"]; ok && topic != "" {
			focus = fmt.Sprintf("the cluster whose keywords include %q", topic)
		}
	}

	template := fmt.Sprintf(`# Draft a Blog Post

## Overview
Turn the current scan results into a publishable blog post draft. The scan clusters recent
articles by shared keywords and scores them against the configured topic weights, so a
high-ranked cluster is a topic your sources are actively covering AND that matters to this
blog. Your job is to pick %s and write the post the suggested angle points at.

## When to Use
- The user wants a post but has no topic in mind
- A weekly or daily writing session driven by what the industry is discussing
- Turning a specific trending keyword into a concrete draft

## Workflow Steps

### Step 1: Run a Scan
Call the scan_feeds tool (no arguments for the configured defaults).

**What you get back:**
- Ranked clusters with keywords, scores, and article counts
- sample_titles and sample article links for each cluster
- suggested_angles: ready-made editorial directions per cluster

If the report has no clusters, widen the window (days: 14) or tell the user there is
nothing trending right now.

### Step 2: Pick the Cluster
Use %s. Before committing, sanity-check it:
- More than one source in "sources" means independent coverage, not one outlet's hobbyhorse
- Keywords should form a coherent topic; skip clusters that read like a grab bag
- A high breakdown.topic_weight_sum means the cluster sits near the blog's core beats

### Step 3: Gather Material
- Read the sample titles and excerpts in the cluster
- Fetch the linked articles you need for facts and quotes
- Note points of agreement and disagreement between sources

### Step 4: Choose the Angle
Start from suggested_angles. Each one is a template filled with the cluster's dominant
keyword. Pick the one that best fits the material, or sharpen it with what you learned in
Step 3. One angle per post.

### Step 5: Draft
**Structure that works for this kind of post:**
- Open with the observable trend (what the N articles collectively say)
- The angle: your take on why it matters to the reader
- Two or three supporting points, each anchored to a source article
- Close with a practical takeaway

**Keep in mind:**
- Link the source articles you used
- The cluster score and keyword list are internal signals, not content for the post
- Match the blog's existing voice

## Tips
- Clusters with article_count of 2 are thin; prefer 3+ unless the topic is clearly hot
- If two top clusters overlap, merge their material into one post rather than writing twice
- Check scout://sources if you need to see which outlets feed each category

**Ready to draft?**
1. scan_feeds for the current clusters
2. Pick %s
3. Read the samples, choose an angle
4. Write the draft with linked sources
`, focus, focus, focus)

	return &mcp.GetPromptResult{
		Description: "Workflow for drafting a blog post from trending clusters",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}

func (s *Server) registerWeeklyRoundupPrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "weekly-roundup",
			Description: "Compile a weekly roundup post covering every trending cluster from the monitored feeds",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "days",
					Description: "Number of days to cover (default: 7)",
					Required:    false,
				},
			},
		},
		s.handleWeeklyRoundup,
	)
}

//nolint:funlen // Prompt handlers contain large template strings
func (s *Server) handleWeeklyRoundup(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	days := "7"
	if req.Params.Arguments != nil {
		if d, ok := req.Params.Arguments["days"]; ok && d != "" {
			days = d
		}
	}

	template := fmt.Sprintf(`# Weekly Roundup

## Overview
Compile a roundup post summarizing what the monitored sources covered over the past %s
days. Unlike draft-post, which goes deep on one cluster, a roundup touches every ranked
cluster briefly and gives readers a map of the week.

## When to Use
- Recurring weekly digest post
- Catching readers up after a busy news cycle
- Producing a newsletter section from the monitored feeds

## Workflow Steps

### Step 1: Scan the Window
Call scan_feeds with days: %s. Ask for more clusters than usual (top: 10) so the roundup
is not limited to the default cut.

### Step 2: Order the Sections
The clusters come back ranked. Keep that order: the score already blends topic relevance,
source diversity, and volume.

**Per cluster, note:**
- The keyword list (becomes the section heading)
- article_count and sources (becomes the "how widely covered" line)
- The best one or two sample articles to link

### Step 3: Write Each Section
Two to four sentences per cluster:
- Sentence 1: what happened, from the sample titles
- Sentence 2: why it matters, borrowing from suggested_angles
- Link the strongest sample article inline

Skip clusters that are obviously feed noise, and say so in the draft comment if you do.

### Step 4: Frame the Post
- Title pattern: "This Week in <domain>: <top cluster keyword> and more"
- Intro: one paragraph naming the two biggest themes
- Outro: what to watch next week, taken from the lower-ranked clusters

## Tips
- total_articles in the report tells you how busy the week was; mention it in the intro
  when the volume itself is the story
- If a cluster's sources list is a single outlet, attribute the coverage to that outlet
  explicitly
- Keep sections short; the roundup's value is breadth

**Ready to compile?**
1. scan_feeds with days: %s and top: 10
2. One short section per cluster, in rank order
3. Intro with the week's themes, outro with what to watch
`, days, days, days)

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Workflow for a roundup covering the past %s days", days),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}
