// Package advice turns an emotional pattern summary into a ranked list
// of evidence-based intervention suggestions. The knowledge base of
// interventions is embedded at build time; scoring, ranking and
// deduplication are pure functions of the summary.
package advice

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ravenmoor/chatwell/internal/models"
)

// DefaultMaxSuggestions is applied when the caller passes a non-positive
// limit.
const DefaultMaxSuggestions = 8

//go:embed kb/interventions.yaml
var kbSource []byte

var kb = mustLoadKnowledgeBase(kbSource)

type knowledgeBase struct {
	Interventions map[string][]intervention `yaml:"interventions"`
	Starters      []intervention            `yaml:"starters"`
}

// intervention is a knowledge-base entry. Conditions and the severity
// threshold drive scoring and never reach the caller.
type intervention struct {
	Title             string   `yaml:"title"`
	Description       string   `yaml:"description"`
	Category          string   `yaml:"category"`
	Priority          string   `yaml:"priority"`
	Conditions        []string `yaml:"conditions"`
	SeverityThreshold float64  `yaml:"severity_threshold"`
	BlogID            string   `yaml:"blog_id"`
	ExternalURL       string   `yaml:"external_url"`
}

func (iv intervention) recommendation() models.Recommendation {
	return models.Recommendation{
		Title:       iv.Title,
		Description: iv.Description,
		Category:    iv.Category,
		Priority:    iv.Priority,
		BlogID:      iv.BlogID,
		ExternalURL: iv.ExternalURL,
	}
}

func mustLoadKnowledgeBase(data []byte) knowledgeBase {
	var kb knowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		panic(fmt.Sprintf("advice: embedded knowledge base: %v", err))
	}
	return kb
}

// Recommend selects and ranks interventions for a pattern summary.
// Candidates come from the bucket matching the summary's pattern type
// plus the always-considered general bucket; zero-scoring candidates are
// dropped, the rest are ordered by priority then relevance, deduplicated
// by title and truncated. A summary without data yields the fixed
// getting-started list instead of scored output.
func Recommend(summary models.PatternSummary, maxSuggestions int) []models.Recommendation {
	if !summary.HasData {
		return starters()
	}
	if maxSuggestions <= 0 {
		maxSuggestions = DefaultMaxSuggestions
	}

	dominant := make(map[string]struct{}, len(summary.DominantEmotions))
	for _, e := range summary.DominantEmotions {
		dominant[e] = struct{}{}
	}

	type candidate struct {
		iv    intervention
		score float64
	}
	var candidates []candidate
	consider := func(bucket []intervention) {
		for _, iv := range bucket {
			if score := relevance(iv, summary, dominant); score > 0 {
				candidates = append(candidates, candidate{iv, score})
			}
		}
	}
	consider(kb.Interventions[summary.PatternType])
	consider(kb.Interventions[models.PatternGeneral])

	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := priorityRank(candidates[i].iv.Priority), priorityRank(candidates[j].iv.Priority)
		if pi != pj {
			return pi < pj
		}
		return candidates[i].score > candidates[j].score
	})

	seen := make(map[string]struct{}, len(candidates))
	out := make([]models.Recommendation, 0, maxSuggestions)
	for _, c := range candidates {
		if _, dup := seen[c.iv.Title]; dup {
			continue
		}
		seen[c.iv.Title] = struct{}{}
		out = append(out, c.iv.recommendation())
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// relevance accumulates an intervention's score against the summary.
// Each declared condition contributes through the first clause it
// satisfies: the wildcard, dominant-emotion membership, then the special
// pattern- and severity-tied conditions. Crossing the intervention's
// severity threshold and critical priority under high severity add on
// top.
func relevance(iv intervention, summary models.PatternSummary, dominant map[string]struct{}) float64 {
	var score float64
	for _, cond := range iv.Conditions {
		switch {
		case cond == "any":
			score += 0.2
		case member(dominant, cond):
			score += 0.5
		case cond == "persistent_negative" && summary.PatternType == models.PatternChronicNegative:
			score += 1.0
		case cond == "chronic_sadness" && member(dominant, "sadness"):
			score += 0.8
		case cond == "crisis_pattern" && summary.SeverityScore > 0.7:
			score += 1.0
		case cond == "positive_stable" && summary.PositiveRatio > 0.5:
			score += 0.6
		case cond == "mixed" && summary.PatternType == models.PatternMixedEmotions:
			score += 0.5
		}
	}

	if summary.SeverityScore >= iv.SeverityThreshold {
		score += 0.3
	}
	if iv.Priority == models.PriorityCritical && summary.SeverityScore > 0.6 {
		score += 0.5
	}
	return score
}

func member(set map[string]struct{}, name string) bool {
	_, ok := set[name]
	return ok
}

func priorityRank(priority string) int {
	switch priority {
	case models.PriorityCritical:
		return 0
	case models.PriorityHigh:
		return 1
	case models.PriorityMedium:
		return 2
	default:
		return 3
	}
}

// starters is the fixed list for users with no history. It is not
// subject to scoring or truncation.
func starters() []models.Recommendation {
	out := make([]models.Recommendation, 0, len(kb.Starters))
	for _, iv := range kb.Starters {
		out = append(out, iv.recommendation())
	}
	return out
}
