// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package scoring

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/tomtom215/contentpilot/internal/models"
)

// Factor names.
const (
	FactorLength            = "length"
	FactorPlatformFit       = "platform_fit"
	FactorToneMatch         = "tone_match"
	FactorAudienceRelevance = "audience_relevance"
	FactorCallToAction      = "call_to_action"
	FactorTopicCoverage     = "topic_coverage"
	FactorReadability       = "readability"
)

const (
	baseScore = 50.0
	maxImpact = 10.0
)

// Context is what the content was written for.
type Context struct {
	Platform     models.Platform
	AudienceType models.AudienceType
	Tone         models.Tone
	Topic        string
}

// ContextFromRequest builds a Context from a request.
func ContextFromRequest(req models.ContentRequest) Context {
	return Context{
		Platform:     req.Platform,
		AudienceType: req.AudienceType,
		Tone:         req.Tone,
		Topic:        req.Topic,
	}
}

// features are the measurements every factor is derived from.
type features struct {
	lower      string
	tokens     map[string]int
	words      int
	sentences  int
	paragraphs int
	hashtags   int
	subject    string
	hasSubject bool
}

var (
	hashtagPattern  = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	sentenceEnd     = regexp.MustCompile(`[.!?]+(\s|$)`)
	paragraphSplit  = regexp.MustCompile(`\n\s*\n`)
	subjectLineExpr = regexp.MustCompile(`^\s*Subject:\s*(.*)`)
)

func extract(content string) features {
	f := features{
		lower:  strings.ToLower(content),
		tokens: make(map[string]int),
	}

	f.words = len(strings.Fields(content))
	tokens := strings.FieldsFunc(f.lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	for _, tok := range tokens {
		f.tokens[tok]++
	}

	f.hashtags = len(hashtagPattern.FindAllString(content, -1))

	trimmed := strings.TrimSpace(content)
	if trimmed != "" {
		f.sentences = len(sentenceEnd.FindAllString(trimmed, -1))
		if f.sentences == 0 {
			f.sentences = 1
		}
		for _, p := range paragraphSplit.Split(trimmed, -1) {
			if strings.TrimSpace(p) != "" {
				f.paragraphs++
			}
		}
	}

	firstLine := strings.SplitN(trimmed, "\n", 2)[0]
	if m := subjectLineExpr.FindStringSubmatch(firstLine); m != nil {
		f.hasSubject = true
		f.subject = strings.TrimSpace(m[1])
	}
	return f
}

// distinctHits counts how many lexicon entries appear at least once.
func (f *features) distinctHits(lexicon []string) int {
	hits := 0
	for _, term := range lexicon {
		if strings.Contains(term, " ") {
			if strings.Contains(f.lower, term) {
				hits++
			}
			continue
		}
		if f.tokens[term] > 0 {
			hits++
		}
	}
	return hits
}

// Score computes the engagement score of content for c.
func Score(content string, c Context) models.EngagementScore {
	f := extract(content)
	ideal, ok := idealWords[c.Platform]
	if !ok {
		ideal = defaultWords
	}

	factors := []models.Factor{
		lengthFactor(f, ideal, c.Platform),
		platformFitFactor(f, c.Platform),
		toneFactor(f, c.Tone),
		audienceFactor(f, c.AudienceType),
		ctaFactor(f),
		topicFactor(f, c.Topic),
		readabilityFactor(f),
	}

	total := baseScore
	for i := range factors {
		factors[i].Impact = round(clamp(factors[i].Impact, -maxImpact, maxImpact), 1)
		total += factors[i].Impact
	}

	confidence := 0.0
	if f.words > 0 {
		confidence = 0.35 + 0.65*math.Min(1, float64(f.words)/float64(ideal.min))
	}

	return models.EngagementScore{
		Score:      round(clamp(total, 0, 100), 1),
		Confidence: round(clamp(confidence, 0, 1), 2),
		Factors:    factors,
	}
}

func lengthFactor(f features, ideal wordRange, platform models.Platform) models.Factor {
	var impact float64
	switch {
	case f.words >= ideal.min && f.words <= ideal.max:
		impact = 8
	case f.words < ideal.min:
		impact = 8 - 18*float64(ideal.min-f.words)/float64(ideal.min)
	default:
		impact = 8 - 18*float64(f.words-ideal.max)/float64(ideal.max)
	}
	return models.Factor{
		Name:        FactorLength,
		Impact:      impact,
		Description: fmt.Sprintf("%d words; %s performs best between %d and %d", f.words, platformLabel(platform), ideal.min, ideal.max),
	}
}

func platformFitFactor(f features, platform models.Platform) models.Factor {
	var impact float64
	var desc string

	switch platform {
	case models.PlatformInstagram:
		switch {
		case f.hashtags >= 3 && f.hashtags <= 10:
			impact, desc = 8, fmt.Sprintf("%d hashtags, within the 3-10 sweet spot", f.hashtags)
		case f.hashtags > 10:
			impact, desc = -4, fmt.Sprintf("%d hashtags reads as spam", f.hashtags)
		case f.hashtags > 0:
			impact, desc = 3, fmt.Sprintf("only %d hashtags; 3-10 widens reach", f.hashtags)
		default:
			impact, desc = -6, "no hashtags on an Instagram caption"
		}
	case models.PlatformLinkedIn:
		switch {
		case f.paragraphs >= 3:
			impact, desc = 7, fmt.Sprintf("%d short paragraphs scan well in the feed", f.paragraphs)
		case f.paragraphs == 2:
			impact, desc = 3, "two paragraphs; more breaks help skimming"
		default:
			impact, desc = -4, "a single block of text is hard to skim"
		}
		if f.hashtags > 5 {
			impact -= 3
			desc += "; too many hashtags for LinkedIn"
		}
	case models.PlatformWhatsApp:
		if f.hashtags == 0 {
			impact, desc = 6, "plain conversational message"
		} else {
			impact, desc = -3, "hashtags look out of place in a chat"
		}
		if f.sentences > 0 && float64(f.words)/float64(f.sentences) <= 15 {
			impact += 2
			desc += "; short sentences"
		}
	case models.PlatformEmail:
		n := len([]rune(f.subject))
		switch {
		case f.hasSubject && n >= 10 && n <= 70:
			impact, desc = 8, fmt.Sprintf("subject line of %d characters", n)
		case f.hasSubject:
			impact, desc = 3, fmt.Sprintf("subject line of %d characters; 10-70 performs best", n)
		default:
			impact, desc = -8, "missing 'Subject:' line"
		}
	default:
		desc = "no platform conventions to check"
	}
	return models.Factor{Name: FactorPlatformFit, Impact: impact, Description: desc}
}

func stepImpact(hits int, none, one, two, many float64) float64 {
	switch {
	case hits <= 0:
		return none
	case hits == 1:
		return one
	case hits == 2:
		return two
	default:
		return many
	}
}

func toneFactor(f features, tone models.Tone) models.Factor {
	hits := f.distinctHits(toneLexicon[tone])
	return models.Factor{
		Name:        FactorToneMatch,
		Impact:      stepImpact(hits, -6, 2, 5, 8),
		Description: fmt.Sprintf("%d %s phrases", hits, tone),
	}
}

func audienceFactor(f features, audience models.AudienceType) models.Factor {
	hits := f.distinctHits(audienceLexicon[audience])
	return models.Factor{
		Name:        FactorAudienceRelevance,
		Impact:      stepImpact(hits, -5, 2, 4, 6),
		Description: fmt.Sprintf("%d terms that speak to %s", hits, audience),
	}
}

func ctaFactor(f features) models.Factor {
	hits := f.distinctHits(ctaLexicon)
	desc := "no call to action"
	if hits > 0 {
		desc = fmt.Sprintf("%d call-to-action phrases", hits)
	}
	return models.Factor{
		Name:        FactorCallToAction,
		Impact:      stepImpact(hits, -8, 6, 7, 7),
		Description: desc,
	}
}

// TopicTerms returns the significant lower-case words of topic.
func TopicTerms(topic string) []string {
	var terms []string
	seen := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(strings.ToLower(topic), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(tok)) < 3 || stopwords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		terms = append(terms, tok)
	}
	return terms
}

func topicFactor(f features, topic string) models.Factor {
	terms := TopicTerms(topic)
	if len(terms) == 0 {
		return models.Factor{Name: FactorTopicCoverage, Impact: 0, Description: "topic has no significant terms"}
	}
	present := 0
	for _, term := range terms {
		if f.tokens[term] > 0 || strings.Contains(f.lower, term) {
			present++
		}
	}
	frac := float64(present) / float64(len(terms))
	return models.Factor{
		Name:        FactorTopicCoverage,
		Impact:      -6 + 14*frac,
		Description: fmt.Sprintf("%d of %d topic terms mentioned", present, len(terms)),
	}
}

func readabilityFactor(f features) models.Factor {
	if f.words == 0 || f.sentences == 0 {
		return models.Factor{Name: FactorReadability, Impact: -5, Description: "no sentences"}
	}
	avg := float64(f.words) / float64(f.sentences)
	var impact float64
	switch {
	case avg >= 8 && avg <= 20:
		impact = 5
	case avg < 8:
		impact = 2
	default:
		impact = 5 - (avg-20)*0.5
	}
	return models.Factor{
		Name:        FactorReadability,
		Impact:      impact,
		Description: fmt.Sprintf("%.1f words per sentence", avg),
	}
}

func platformLabel(p models.Platform) string {
	switch p {
	case models.PlatformInstagram:
		return "Instagram"
	case models.PlatformLinkedIn:
		return "LinkedIn"
	case models.PlatformWhatsApp:
		return "WhatsApp"
	case models.PlatformEmail:
		return "email"
	default:
		return string(p)
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
