// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/contentpilot/internal/models"
)

const (
	// SuggestBelow is the score under which at least MinSuggestions are produced.
	SuggestBelow = 70.0

	// NoSuggestionsAbove is the score over which no suggestions are produced.
	NoSuggestionsAbove = 85.0

	// MinSuggestions is the minimum list length when score < SuggestBelow.
	MinSuggestions = 3

	// weakImpact marks a factor worth mentioning for mid-range scores.
	weakImpact = 5.0

	impactWeight = 0.8
)

var categoryFactors = map[models.SuggestionCategory][]string{
	models.CategoryTone:         {FactorToneMatch},
	models.CategoryLength:       {FactorLength},
	models.CategoryKeywords:     {FactorAudienceRelevance, FactorTopicCoverage},
	models.CategoryStructure:    {FactorPlatformFit, FactorReadability},
	models.CategoryCallToAction: {FactorCallToAction},
}

// Suggest derives ranked improvement suggestions for content given its score.
// The returned slice is never nil.
func Suggest(content string, score models.EngagementScore, c Context) []models.ImprovementSuggestion {
	if score.Score > NoSuggestionsAbove {
		return []models.ImprovementSuggestion{}
	}

	impacts := make(map[string]float64, len(score.Factors))
	for _, f := range score.Factors {
		impacts[f.Name] = f.Impact
	}
	f := extract(content)

	type candidate struct {
		category models.SuggestionCategory
		weakest  float64
	}
	candidates := make([]candidate, 0, len(models.SuggestionCategories))
	for _, cat := range models.SuggestionCategories {
		weakest := maxImpact
		for _, name := range categoryFactors[cat] {
			if v, ok := impacts[name]; ok && v < weakest {
				weakest = v
			}
		}
		candidates = append(candidates, candidate{category: cat, weakest: weakest})
	}

	out := make([]models.ImprovementSuggestion, 0, len(candidates))
	used := make(map[models.SuggestionCategory]bool)
	add := func(cand candidate) {
		gap := maxImpact - cand.weakest
		out = append(out, models.ImprovementSuggestion{
			Category:       cand.category,
			Reasoning:      reasoning(cand.category, f, c),
			ExpectedImpact: round(gap*impactWeight, 1),
		})
		used[cand.category] = true
	}

	if score.Score < SuggestBelow {
		for _, cand := range candidates {
			if cand.weakest < maxImpact {
				add(cand)
			}
		}
		for _, cand := range candidates {
			if len(out) >= MinSuggestions {
				break
			}
			if !used[cand.category] {
				add(cand)
			}
		}
	} else {
		for _, cand := range candidates {
			if cand.weakest < weakImpact {
				add(cand)
			}
		}
	}

	// candidates are in canonical order, so a stable sort keeps it for ties.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExpectedImpact > out[j].ExpectedImpact
	})
	return out
}

func reasoning(cat models.SuggestionCategory, f features, c Context) string {
	switch cat {
	case models.CategoryTone:
		words := toneLexicon[c.Tone]
		if len(words) > 4 {
			words = words[:4]
		}
		return fmt.Sprintf("Lean harder into a %s voice; phrases like %s signal it clearly.", c.Tone, quoteList(words))
	case models.CategoryLength:
		ideal, ok := idealWords[c.Platform]
		if !ok {
			ideal = defaultWords
		}
		switch {
		case f.words < ideal.min:
			return fmt.Sprintf("Expand the draft: %s content performs best at %d-%d words and this one has %d.", platformLabel(c.Platform), ideal.min, ideal.max, f.words)
		case f.words > ideal.max:
			return fmt.Sprintf("Tighten the draft: %s content performs best at %d-%d words and this one has %d.", platformLabel(c.Platform), ideal.min, ideal.max, f.words)
		default:
			return fmt.Sprintf("Keep the length within %d-%d words while sharpening each sentence.", ideal.min, ideal.max)
		}
	case models.CategoryKeywords:
		terms := TopicTerms(c.Topic)
		audience := audienceLexicon[c.AudienceType]
		if len(audience) > 3 {
			audience = audience[:3]
		}
		if len(terms) == 0 {
			return fmt.Sprintf("Speak directly to %s with words like %s.", c.AudienceType, quoteList(audience))
		}
		return fmt.Sprintf("Name the topic explicitly (%s) and speak to %s with words like %s.", strings.Join(terms, ", "), c.AudienceType, quoteList(audience))
	case models.CategoryStructure:
		return structureAdvice(c.Platform, f)
	case models.CategoryCallToAction:
		return fmt.Sprintf("Close with one clear call to action, for example %s.", quoteList(ctaFor(c.Platform)))
	default:
		return "Revise the draft for clarity."
	}
}

func structureAdvice(p models.Platform, f features) string {
	var advice string
	switch p {
	case models.PlatformInstagram:
		advice = fmt.Sprintf("End the caption with 3-10 relevant hashtags (currently %d) and keep the hook in the first line.", f.hashtags)
	case models.PlatformLinkedIn:
		advice = fmt.Sprintf("Break the post into 3 or more short paragraphs (currently %d) with a strong opening line.", f.paragraphs)
	case models.PlatformWhatsApp:
		advice = "Keep it conversational: short sentences, no hashtags, one idea per line."
	case models.PlatformEmail:
		advice = "Open with a 'Subject:' line of 10-70 characters, then a greeting and short paragraphs."
	default:
		advice = "Use short paragraphs with one idea each."
	}
	if f.sentences > 0 && float64(f.words)/float64(f.sentences) > 20 {
		advice += " Split long sentences; aim for under 20 words each."
	}
	return advice
}

func ctaFor(p models.Platform) []string {
	switch p {
	case models.PlatformInstagram:
		return []string{"tap the link in bio", "comment below"}
	case models.PlatformLinkedIn:
		return []string{"comment below", "send me a message"}
	case models.PlatformWhatsApp:
		return []string{"reply YES", "tap to join"}
	case models.PlatformEmail:
		return []string{"click to register", "book your spot"}
	default:
		return []string{"learn more"}
	}
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return strings.Join(quoted, ", ")
}

// RankByScore orders responses by engagement score, highest first.
// Responses with equal scores keep their relative order.
func RankByScore(responses []*models.ContentResponse) {
	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].EngagementScore.Score > responses[j].EngagementScore.Score
	})
}

// Engine bundles Score and Suggest behind methods so callers can depend on an interface.
type Engine struct{}

// NewEngine creates an Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score implements the orchestrator's scorer dependency.
func (e *Engine) Score(content string, c Context) models.EngagementScore {
	return Score(content, c)
}

// Suggest implements the orchestrator's suggester dependency.
func (e *Engine) Suggest(content string, score models.EngagementScore, c Context) []models.ImprovementSuggestion {
	return Suggest(content, score, c)
}
