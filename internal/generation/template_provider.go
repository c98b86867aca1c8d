// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package generation

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/tomtom215/contentpilot/internal/models"
)

// TemplateProvider composes content from the prompt brief without any network
// call. Output is a pure function of the prompt, so it suits development
// deployments and tests.
type TemplateProvider struct{}

// NewTemplateProvider creates a TemplateProvider.
func NewTemplateProvider() *TemplateProvider {
	return &TemplateProvider{}
}

// Name implements Provider.
func (p *TemplateProvider) Name() string {
	return "template"
}

var openers = map[models.Tone][]string{
	models.ToneFOMO: {
		"Only a few spots left for %s.",
		"Don't miss out: %s is filling up fast.",
		"Last chance to get ahead with %s, and everyone else is already in.",
	},
	models.ToneInspirational: {
		"Every big achievement starts with %s.",
		"Believe in your journey and let %s help you grow.",
		"Your dream future grows from small steps like %s.",
	},
	models.ToneProfessional: {
		"Here are practical insights on %s.",
		"Our experience shows that %s drives measurable results.",
		"A focused strategy for %s delivers lasting value.",
	},
	models.ToneUrgent: {
		"Act now on %s before the deadline hits.",
		"Today is the day to tackle %s.",
		"Time is running out for %s, so start immediately.",
	},
}

var audienceLines = map[models.AudienceType]string{
	models.AudienceStudents:   "Whether you are studying for finals or planning your career, %s helps students stay ahead of every exam and class.",
	models.AudienceBusinesses: "For growing teams, %s means happier clients, stronger revenue and real business growth.",
	models.AudienceCreators:   "For creators building an audience, %s turns followers into a loyal community around your brand.",
}

var details = []string{
	"You get a clear plan with simple steps you can follow from day one.",
	"Expert tips cut through the noise so you focus on what actually works.",
	"Support is there at every step when you need a hand.",
	"Hundreds of people have already used this approach to see results quickly.",
	"Everything is designed to fit into a busy week without stress.",
	"Progress is easy to track, so you always know where you stand.",
}

var ctas = map[models.Platform]string{
	models.PlatformInstagram: "Tap the link in bio and join us today!",
	models.PlatformLinkedIn:  "Comment below or send me a message to learn more.",
	models.PlatformWhatsApp:  "Reply YES to join.",
	models.PlatformEmail:     "Click the link below to register today.",
}

var toneTags = map[models.Tone]string{
	models.ToneFOMO:          "#dontmissout",
	models.ToneInspirational: "#motivation",
	models.ToneProfessional:  "#insights",
	models.ToneUrgent:        "#actnow",
}

// Generate implements Provider.
func (p *TemplateProvider) Generate(ctx context.Context, prompt Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b := prompt.Brief
	topic := b.Topic
	if topic == "" {
		return "", &ProviderError{Provider: p.Name(), Kind: KindInvalid, Message: "empty topic"}
	}

	tones := openers[b.Tone]
	if len(tones) == 0 {
		tones = openers[models.ToneProfessional]
	}
	opener := fmt.Sprintf(tones[prompt.Variation%len(tones)], topic)

	audience := fmt.Sprintf("%s is worth your attention this week.", capitalize(topic))
	if line, ok := audienceLines[b.AudienceType]; ok {
		audience = fmt.Sprintf(line, topic)
	}

	cta := ctas[b.Platform]
	if cta == "" {
		cta = "Learn more today."
	}

	var extra []string
	if b.AdditionalContext != "" {
		extra = append(extra, strings.TrimRight(b.AdditionalContext, ".")+".")
	}
	if prompt.Guidance != "" {
		extra = append(extra, "P.S. "+strings.TrimRight(prompt.Guidance, ".")+".")
	}

	var out string
	switch b.Platform {
	case models.PlatformInstagram:
		body := strings.Join(append([]string{opener, audience, pick(details, prompt.Variation, 2)}, extra...), " ")
		out = body + "\n\n" + cta + "\n\n" + strings.Join(DefaultHashtags(b), " ")
	case models.PlatformLinkedIn:
		paras := []string{
			opener,
			audience + " " + pick(details, prompt.Variation, 3),
			pick(details, prompt.Variation+3, 3),
		}
		paras = append(paras, extra...)
		paras = append(paras, cta, DefaultHashtags(b)[0])
		out = strings.Join(paras, "\n\n")
	case models.PlatformWhatsApp:
		parts := append([]string{opener}, extra...)
		parts = append(parts, cta)
		out = strings.Join(parts, " ")
	case models.PlatformEmail:
		subject := fmt.Sprintf("Subject: %s", subjectFor(b))
		paras := []string{
			"Hi there,",
			opener + " " + audience,
			pick(details, prompt.Variation, 3),
			pick(details, prompt.Variation+3, 3),
		}
		paras = append(paras, extra...)
		paras = append(paras, cta, "Best regards,\nThe Team")
		out = subject + "\n\n" + strings.Join(paras, "\n\n")
	default:
		out = strings.Join(append([]string{opener, audience, cta}, extra...), " ")
	}
	return out, nil
}

func pick(items []string, offset, n int) string {
	selected := make([]string, 0, n)
	for i := 0; i < n; i++ {
		selected = append(selected, items[(offset+i)%len(items)])
	}
	return strings.Join(selected, " ")
}

// DefaultHashtags derives topic, audience and tone hashtags for a brief.
func DefaultHashtags(b models.ContentRequest) []string {
	tags := []string{HashtagFromText(b.Topic), "#" + string(b.AudienceType)}
	if t, ok := toneTags[b.Tone]; ok {
		tags = append(tags, t)
	}
	return tags
}

func subjectFor(b models.ContentRequest) string {
	switch b.Tone {
	case models.ToneFOMO:
		return "Don't miss out on " + b.Topic
	case models.ToneUrgent:
		return "Last call: " + b.Topic
	case models.ToneInspirational:
		return "Your next step: " + b.Topic
	default:
		return "Insights on " + b.Topic
	}
}

// HashtagFromText turns free text into a single lower-case hashtag,
// e.g. "Exam Prep!" becomes "#examprep".
func HashtagFromText(s string) string {
	var b strings.Builder
	b.WriteByte('#')
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 1 {
		return "#content"
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
