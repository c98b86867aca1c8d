// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package scoring

import "github.com/tomtom215/contentpilot/internal/models"

// wordRange is an inclusive ideal word count.
type wordRange struct {
	min, max int
}

var idealWords = map[models.Platform]wordRange{
	models.PlatformInstagram: {30, 150},
	models.PlatformLinkedIn:  {100, 300},
	models.PlatformWhatsApp:  {10, 60},
	models.PlatformEmail:     {120, 400},
}

var defaultWords = wordRange{30, 200}

var toneLexicon = map[models.Tone][]string{
	models.ToneFOMO: {
		"only", "limited", "last chance", "don't miss", "miss out", "exclusive",
		"spots", "filling up", "few left", "everyone", "before it's gone", "ends soon",
	},
	models.ToneUrgent: {
		"now", "today", "immediately", "deadline", "hurry", "asap", "urgent",
		"running out", "last call", "right away", "before",
	},
	models.ToneInspirational: {
		"dream", "believe", "journey", "achieve", "achievement", "inspire", "grow",
		"future", "potential", "success", "possible",
	},
	models.ToneProfessional: {
		"insights", "strategy", "results", "experience", "expertise", "value",
		"data", "practical", "measurable", "proven", "focused",
	},
}

var audienceLexicon = map[models.AudienceType][]string{
	models.AudienceStudents: {
		"student", "students", "exam", "exams", "study", "studying", "class",
		"campus", "grades", "career", "finals", "semester",
	},
	models.AudienceBusinesses: {
		"business", "clients", "revenue", "growth", "team", "teams", "roi",
		"customers", "profit", "market", "sales",
	},
	models.AudienceCreators: {
		"creator", "creators", "audience", "followers", "content", "community",
		"brand", "engagement", "collab", "views", "subscribers",
	},
}

var ctaLexicon = []string{
	"click", "sign up", "join", "learn more", "register", "book", "shop",
	"comment", "share", "subscribe", "reply", "dm", "tap", "link in bio",
	"send me a message", "download", "get started", "enroll",
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "your": true,
	"you": true, "our": true, "how": true, "what": true, "from": true,
	"into": true, "about": true, "this": true, "that": true,
}
