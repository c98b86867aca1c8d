// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

/*
Package config loads ContentPilot configuration with Koanf v2.

Sources are layered, later layers overriding earlier ones:

 1. Defaults: built-in values from defaultConfig (structs provider)
 2. Config file: optional YAML from CONFIG_PATH, ./config.yaml, ./config.yml
    or /etc/contentpilot/config.yaml
 3. Environment variables: an explicit name map (HTTP_PORT -> server.port);
    unmapped variables are ignored

Load validates the result; each section has its own validator in
config_validate.go. Durations accept Go syntax ("90s", "1h").

Example file:

	server:
	  port: 8080
	  environment: production
	ratelimit:
	  limit: 100
	  window: 1h
	generation:
	  provider: http
	  base_url: https://api.openai.com/v1
	  model: gpt-4o-mini
	auth:
	  mode: jwt
	events:
	  backend: nats
	  embedded: true
*/
package config
