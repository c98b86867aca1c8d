// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package orchestrator

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/contentpilot/internal/models"
)

var platformTitles = map[models.Platform]string{
	models.PlatformInstagram: "Instagram post",
	models.PlatformLinkedIn:  "LinkedIn post",
	models.PlatformWhatsApp:  "WhatsApp message",
	models.PlatformEmail:     "Email",
}

func renderExport(resp *models.ContentResponse, format models.ExportFormat) (string, error) {
	switch format {
	case models.ExportText:
		return resp.Content, nil
	case models.ExportJSON:
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal export: %w", err)
		}
		return string(data), nil
	case models.ExportMarkdown:
		return renderMarkdown(resp), nil
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
}

func renderMarkdown(resp *models.ContentResponse) string {
	var b strings.Builder
	title := platformTitles[resp.Metadata.Platform]
	if title == "" {
		title = "Content"
	}
	fmt.Fprintf(&b, "## %s\n\n", title)
	fmt.Fprintf(&b, "_%s audience, %s tone, %s_\n\n", resp.Metadata.AudienceType, resp.Metadata.Tone, resp.Metadata.Language)
	b.WriteString(resp.Content)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "**Engagement score:** %.1f/100 (confidence %.2f)\n", resp.EngagementScore.Score, resp.EngagementScore.Confidence)
	if len(resp.Metadata.Hashtags) > 0 {
		fmt.Fprintf(&b, "\n**Hashtags:** %s\n", strings.Join(resp.Metadata.Hashtags, " "))
	}
	if len(resp.Suggestions) > 0 {
		b.WriteString("\n### Suggestions\n\n")
		for _, s := range resp.Suggestions {
			fmt.Fprintf(&b, "- **%s** (%+.1f): %s\n", s.Category, s.ExpectedImpact, s.Reasoning)
		}
	}
	return b.String()
}
