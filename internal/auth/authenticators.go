// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/contentpilot/internal/config"
	"github.com/tomtom215/contentpilot/internal/models"
)

// AnonymousUserID is the identity used when authentication is disabled.
const AnonymousUserID = "anonymous"

// Default identity headers for header mode.
const (
	DefaultUserHeader = "X-User-ID"
	DefaultRoleHeader = "X-User-Role"
)

// maxUserIDLength bounds user IDs; they become store keys.
const maxUserIDLength = 128

// validUserID rejects IDs that are empty, oversized or carry key separators.
func validUserID(userID string) bool {
	return userID != "" && len(userID) <= maxUserIDLength && !strings.ContainsAny(userID, ": \t")
}

// JWTAuthenticator validates Bearer tokens from the Authorization header.
type JWTAuthenticator struct {
	manager *JWTManager
}

// NewJWTAuthenticator creates a JWT authenticator.
func NewJWTAuthenticator(manager *JWTManager) *JWTAuthenticator {
	return &JWTAuthenticator{manager: manager}
}

// Authenticate implements Authenticator.
func (a *JWTAuthenticator) Authenticate(_ context.Context, r *http.Request) (models.Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return models.Identity{}, ErrNoCredentials
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return models.Identity{}, fmt.Errorf("%w: expected Bearer token", ErrInvalidCredentials)
	}

	claims, err := a.manager.ValidateToken(strings.TrimSpace(token))
	if err != nil {
		return models.Identity{}, err
	}
	role := models.Role(claims.Role)
	if !models.IsValidRole(role) {
		return models.Identity{}, fmt.Errorf("%w: unknown role %q", ErrInvalidCredentials, claims.Role)
	}
	if !validUserID(claims.Subject) {
		return models.Identity{}, fmt.Errorf("%w: malformed subject", ErrInvalidCredentials)
	}
	return models.Identity{UserID: claims.Subject, Role: role}, nil
}

// Name implements Authenticator.
func (a *JWTAuthenticator) Name() string { return "jwt" }

// HeaderAuthenticator trusts identity headers set by an upstream gateway.
type HeaderAuthenticator struct {
	userHeader  string
	roleHeader  string
	defaultRole models.Role
}

// NewHeaderAuthenticator creates a header authenticator. Empty header names
// fall back to X-User-ID and X-User-Role.
func NewHeaderAuthenticator(userHeader, roleHeader string, defaultRole models.Role) *HeaderAuthenticator {
	if userHeader == "" {
		userHeader = DefaultUserHeader
	}
	if roleHeader == "" {
		roleHeader = DefaultRoleHeader
	}
	return &HeaderAuthenticator{userHeader: userHeader, roleHeader: roleHeader, defaultRole: defaultRole}
}

// Authenticate implements Authenticator.
func (a *HeaderAuthenticator) Authenticate(_ context.Context, r *http.Request) (models.Identity, error) {
	userID := strings.TrimSpace(r.Header.Get(a.userHeader))
	if userID == "" {
		return models.Identity{}, ErrNoCredentials
	}
	if !validUserID(userID) {
		return models.Identity{}, fmt.Errorf("%w: malformed user ID", ErrInvalidCredentials)
	}

	role := a.defaultRole
	if raw := strings.TrimSpace(r.Header.Get(a.roleHeader)); raw != "" {
		role = models.Role(strings.ToLower(raw))
		if !models.IsValidRole(role) {
			return models.Identity{}, fmt.Errorf("%w: unknown role %q", ErrInvalidCredentials, raw)
		}
	}
	return models.Identity{UserID: userID, Role: role}, nil
}

// Name implements Authenticator.
func (a *HeaderAuthenticator) Name() string { return "header" }

// NoneAuthenticator accepts every request as the anonymous user.
type NoneAuthenticator struct {
	role models.Role
}

// NewNoneAuthenticator creates an authenticator that never rejects.
func NewNoneAuthenticator(role models.Role) *NoneAuthenticator {
	return &NoneAuthenticator{role: role}
}

// Authenticate implements Authenticator.
func (a *NoneAuthenticator) Authenticate(context.Context, *http.Request) (models.Identity, error) {
	return models.Identity{UserID: AnonymousUserID, Role: a.role}, nil
}

// Name implements Authenticator.
func (a *NoneAuthenticator) Name() string { return "none" }

// NewAuthenticator builds the authenticator selected by cfg.Mode.
func NewAuthenticator(cfg *config.AuthConfig) (Authenticator, error) {
	mode, err := ParseAuthMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	defaultRole := models.Role(cfg.DefaultRole)
	if defaultRole == "" {
		defaultRole = models.RoleCreator
	}
	if !models.IsValidRole(defaultRole) {
		return nil, fmt.Errorf("invalid default role: %q", cfg.DefaultRole)
	}

	switch mode {
	case AuthModeJWT:
		manager, err := NewJWTManager(cfg)
		if err != nil {
			return nil, err
		}
		return NewJWTAuthenticator(manager), nil
	case AuthModeHeader:
		return NewHeaderAuthenticator(cfg.UserHeader, cfg.RoleHeader, defaultRole), nil
	default:
		return NewNoneAuthenticator(defaultRole), nil
	}
}
