// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package generation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/contentpilot/internal/models"
)

// Translator is an external translation capability.
type Translator interface {
	Name() string
	Translate(ctx context.Context, text string, source, target models.Language) (string, error)
}

// StubTranslator returns text unchanged. It stands in when no translation
// service is configured.
type StubTranslator struct{}

// Name implements Translator.
func (StubTranslator) Name() string { return "stub" }

// Translate implements Translator.
func (StubTranslator) Translate(ctx context.Context, text string, _, _ models.Language) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return text, nil
}

// HTTPTranslatorConfig configures a LibreTranslate-compatible endpoint.
type HTTPTranslatorConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// HTTPTranslator calls POST {URL}/translate.
type HTTPTranslator struct {
	cfg    HTTPTranslatorConfig
	client *http.Client
}

// NewHTTPTranslator creates an HTTPTranslator.
func NewHTTPTranslator(cfg HTTPTranslatorConfig) *HTTPTranslator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	return &HTTPTranslator{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

// Name implements Translator.
func (t *HTTPTranslator) Name() string { return "http-translate" }

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error,omitempty"`
}

// Translate implements Translator.
func (t *HTTPTranslator) Translate(ctx context.Context, text string, source, target models.Language) (string, error) {
	body, err := json.Marshal(translateRequest{Q: text, Source: string(source), Target: string(target), Format: "text", APIKey: t.cfg.APIKey})
	if err != nil {
		return "", fmt.Errorf("encode translate request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.URL+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", classifyTransportError(t.Name(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &ProviderError{Provider: t.Name(), Kind: KindUnavailable, Message: "read response", Err: err}
	}
	var parsed translateResponse
	_ = json.Unmarshal(data, &parsed) //nolint:errcheck // error bodies may not be JSON

	if resp.StatusCode != http.StatusOK {
		msg := parsed.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &ProviderError{Provider: t.Name(), Kind: KindForStatus(resp.StatusCode), StatusCode: resp.StatusCode, Message: msg}
	}
	return parsed.TranslatedText, nil
}

// markerPattern matches the formatting markers that must survive translation:
// hashtags and the email subject-line delimiter.
var markerPattern = regexp.MustCompile(`#[\p{L}\p{N}_]+|(?m:^Subject:)`)

const subjectMarker = "Subject:"

// MarkerGuard wraps a Translator so hashtags and the "Subject:" delimiter come
// back verbatim. Markers are swapped for numbered placeholders before the call
// and restored afterwards; a marker whose placeholder the service dropped is
// re-attached (subject at the front, hashtags at the end).
type MarkerGuard struct {
	next Translator
}

// NewMarkerGuard wraps next.
func NewMarkerGuard(next Translator) *MarkerGuard {
	return &MarkerGuard{next: next}
}

// Name implements Translator.
func (g *MarkerGuard) Name() string { return g.next.Name() }

// Translate implements Translator.
func (g *MarkerGuard) Translate(ctx context.Context, text string, source, target models.Language) (string, error) {
	protected, markers := ProtectMarkers(text)
	translated, err := g.next.Translate(ctx, protected, source, target)
	if err != nil {
		return "", err
	}
	return RestoreMarkers(translated, markers), nil
}

func placeholder(i int) string {
	return fmt.Sprintf("⟦%d⟧", i)
}

// ProtectMarkers replaces every marker in text with a placeholder.
func ProtectMarkers(text string) (string, []string) {
	var markers []string
	out := markerPattern.ReplaceAllStringFunc(text, func(m string) string {
		markers = append(markers, m)
		return placeholder(len(markers) - 1)
	})
	return out, markers
}

// RestoreMarkers reverses ProtectMarkers.
func RestoreMarkers(text string, markers []string) string {
	var missingTags []string
	missingSubject := false

	for i, m := range markers {
		ph := placeholder(i)
		if strings.Contains(text, ph) {
			text = strings.Replace(text, ph, m, 1)
			continue
		}
		if m == subjectMarker {
			missingSubject = true
		} else {
			missingTags = append(missingTags, m)
		}
	}

	if missingSubject {
		text = subjectMarker + " " + strings.TrimLeft(text, " ")
	}
	if len(missingTags) > 0 {
		text = strings.TrimRight(text, " \n") + "\n\n" + strings.Join(missingTags, " ")
	}
	return text
}

// ExtractHashtags returns the distinct hashtags in text, in order of appearance.
func ExtractHashtags(text string) []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, m := range markerPattern.FindAllString(text, -1) {
		if m == subjectMarker {
			continue
		}
		key := strings.ToLower(m)
		if seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, m)
	}
	return tags
}
