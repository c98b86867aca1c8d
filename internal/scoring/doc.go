// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

// Package scoring predicts engagement for generated content and derives
// improvement suggestions. Both are pure functions of their inputs.
//
// # Score
//
// The score starts at a base of 50 and adds seven factor impacts, each
// clamped to [-10, 10]:
//
//	length              word count against the platform's ideal range
//	platform_fit        platform conventions (hashtags, subject line, paragraphs)
//	tone_match          distinct tone-lexicon phrases present
//	audience_relevance  distinct audience-lexicon phrases present
//	call_to_action      call-to-action phrases present
//	topic_coverage      fraction of topic terms that appear in the content
//	readability         mean words per sentence
//
// The sum is clamped to [0, 100] and rounded to one decimal. Confidence is
// 0.35 + 0.65 * min(1, words / idealMinimum), clamped to [0, 1] and rounded
// to two decimals; empty content has confidence 0.
//
// # Suggestions
//
// Each suggestion category maps to one or more factors. The gap of a
// category is 10 minus the weakest impact among its factors, and its
// expected impact is 0.8 * gap. Scores above 85 yield no suggestions.
// Scores below 70 yield every category with a gap, and at least three.
// Scores in between yield only categories whose weakest factor is below 5.
// Suggestions are ordered by expected impact, highest first.
package scoring
