// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package orchestrator

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/contentpilot/internal/generation"
	"github.com/tomtom215/contentpilot/internal/models"
)

// Character caps per platform. Email has none.
var platformCharLimit = map[models.Platform]int{
	models.PlatformInstagram: 2200,
	models.PlatformLinkedIn:  3000,
	models.PlatformWhatsApp:  4096,
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// FormatForPlatform normalizes whitespace and applies platform conventions,
// such as the instagram hashtag guarantee and the email subject line. Text over
// a platform's character cap is cut on a word boundary.
func FormatForPlatform(req models.ContentRequest, text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	text = strings.TrimSpace(blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))

	switch req.Platform {
	case models.PlatformInstagram:
		limit := platformCharLimit[req.Platform]
		text = truncate(text, limit)
		if len(generation.ExtractHashtags(text)) == 0 {
			tags := strings.Join(generation.DefaultHashtags(req), " ")
			text = truncate(text, limit-utf8.RuneCountInString(tags)-2) + "\n\n" + tags
		}
	case models.PlatformEmail:
		if !strings.HasPrefix(text, "Subject:") {
			text = "Subject: " + req.Topic + "\n\n" + text
		}
	default:
		if limit, ok := platformCharLimit[req.Platform]; ok {
			text = truncate(text, limit)
		}
	}
	return text
}

// truncate cuts s to at most limit runes, preferring the last space.
func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:limit-1])
	if i := strings.LastIndexAny(cut, " \n"); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " \n") + "…"
}
