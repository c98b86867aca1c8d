// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

/*
Package auth resolves the caller's Identity at the HTTP boundary.

Three modes are supported, selected by auth.mode:

  - jwt: an HS256 bearer token in the Authorization header. The subject
    claim is the user ID and the role claim the authorization role.
  - header: trusted gateway headers (X-User-ID, X-User-Role by default),
    for deployments behind an authenticating proxy.
  - none: every request is the configured anonymous user.

Middleware stores the Identity in the request context; handlers read it with
IdentityFromContext. Nothing behind this package re-checks credentials.
*/
package auth
