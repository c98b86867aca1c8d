// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package models

// Role is an authorization role.
type Role string

// Roles known to the authorization policy.
const (
	RoleViewer  Role = "viewer"
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

// IsValidRole reports whether r is a known role.
func IsValidRole(r Role) bool {
	switch r {
	case RoleViewer, RoleCreator, RoleAdmin:
		return true
	}
	return false
}

// Identity is the authenticated caller. It is resolved at the HTTP boundary
// and trusted by everything behind it.
type Identity struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}
