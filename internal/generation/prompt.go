// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package generation

import (
	"fmt"
	"strings"

	"github.com/tomtom215/contentpilot/internal/models"
)

// Prompt is what a Provider receives.
type Prompt struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int

	// Brief is the normalized request the prompt was built from. Offline
	// providers compose from it directly instead of parsing User.
	Brief models.ContentRequest

	// Guidance carries revision instructions when improving existing content.
	Guidance string

	// Previous is the content being revised, if any.
	Previous string

	// Variation selects an alternative angle; 0 is the primary take.
	Variation int
}

// PromptOption adjusts a Prompt before it is sent.
type PromptOption func(*Prompt)

// WithGuidance asks for a revision of previous following guidance.
func WithGuidance(previous, guidance string) PromptOption {
	return func(p *Prompt) {
		p.Previous = previous
		p.Guidance = guidance
	}
}

// WithVariation requests an alternative angle.
func WithVariation(n int) PromptOption {
	return func(p *Prompt) { p.Variation = n }
}

var platformRules = map[models.Platform]string{
	models.PlatformInstagram: "Write an Instagram caption of 40 to 150 words. End with a line of 3 to 8 relevant hashtags.",
	models.PlatformLinkedIn:  "Write a LinkedIn post of 100 to 300 words in short paragraphs separated by blank lines. Use at most 3 hashtags.",
	models.PlatformWhatsApp:  "Write a WhatsApp broadcast message of 15 to 60 words. Keep sentences short. No hashtags.",
	models.PlatformEmail:     "Write a marketing email of 120 to 400 words. The first line must be 'Subject: ' followed by the subject line, then a blank line, then the body.",
}

var toneRules = map[models.Tone]string{
	models.ToneFOMO:          "Create a sense of scarcity and missing out: limited spots, deadlines, exclusivity.",
	models.ToneInspirational: "Be uplifting and aspirational: growth, dreams, achievement.",
	models.ToneProfessional:  "Be credible and precise: insights, results, expertise. Avoid hype.",
	models.ToneUrgent:        "Be direct and time-sensitive: act now, today, deadlines.",
}

var audienceRules = map[models.AudienceType]string{
	models.AudienceStudents:   "The readers are students; speak to study, exams, campus life and careers.",
	models.AudienceBusinesses: "The readers are business owners and teams; speak to growth, clients, revenue and ROI.",
	models.AudienceCreators:   "The readers are content creators; speak to audience, community, brand and growth.",
}

// BuildPrompt renders the system and user prompts for req.
func BuildPrompt(req models.ContentRequest, temperature float64, maxTokens int, opts ...PromptOption) Prompt {
	p := Prompt{
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Brief:       req,
	}
	for _, opt := range opts {
		opt(&p)
	}

	var sys strings.Builder
	sys.WriteString("You are a social media copywriter. ")
	sys.WriteString(platformRules[req.Platform])
	sys.WriteString(" ")
	sys.WriteString(toneRules[req.Tone])
	sys.WriteString(" ")
	sys.WriteString(audienceRules[req.AudienceType])
	sys.WriteString(" Always include a clear call to action. Reply with the content only.")
	p.System = sys.String()

	var user strings.Builder
	fmt.Fprintf(&user, "Topic: %s\n", req.Topic)
	if req.AdditionalContext != "" {
		fmt.Fprintf(&user, "Context: %s\n", req.AdditionalContext)
	}
	if p.Variation > 0 {
		fmt.Fprintf(&user, "Take a different angle from the obvious one (variation %d).\n", p.Variation)
	}
	if p.Previous != "" {
		fmt.Fprintf(&user, "Revise this draft:\n%s\n", p.Previous)
		fmt.Fprintf(&user, "Revision guidance: %s\n", p.Guidance)
		user.WriteString("The revision must differ from the draft.\n")
	}
	p.User = user.String()
	return p
}
