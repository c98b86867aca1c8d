// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package main

import (
	_ "github.com/tomtom215/contentpilot/docs" // Import generated swagger docs
)

// @title ContentPilot API
// @version 1.0
// @description Generates platform-specific social content with engagement scores and improvement suggestions.
// @description
// @description ## Rate Limiting
// @description
// @description Generation, variations and improvement share a per-user quota of 100 requests per rolling hour.
// @description Every admitted request counts, including cache hits. Rejected requests carry a Retry-After header.
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/contentpilot
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @BasePath /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT bearer token: "Bearer {token}"
