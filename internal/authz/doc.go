// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

// Package authz maps caller roles to permitted content actions using Casbin.
//
// The model is a plain RBAC matcher with role inheritance; the embedded
// policy grants:
//
//	viewer   content:read, ratelimit:read
//	creator  viewer + content:generate|improve|save|export|copy|delete
//	admin    creator + everything
//
// A policy file may replace the embedded policy (authz.policy_path); it is
// reloaded on the configured interval.
//
// The middleware runs after internal/auth and answers 403 when the resolved
// identity's role lacks the route's action:
//
//	r.With(authz.Require(enf, authz.ObjectContent, authz.ActionGenerate)).
//		Post("/content/generate", h.Generate)
package authz
