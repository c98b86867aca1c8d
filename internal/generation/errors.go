// ContentPilot - Social Content Generation and Engagement Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/contentpilot

package generation

import (
	"errors"
	"fmt"
	"net"
)

// Sentinel errors returned by Client.Generate.
var (
	// ErrRetriesExhausted means every attempt failed with a transient error.
	ErrRetriesExhausted = errors.New("generation retries exhausted")

	// ErrRejected means the provider refused the prompt; it is never retried.
	ErrRejected = errors.New("generation rejected by provider")

	// ErrCircuitOpen means the breaker is open and the provider was not called.
	ErrCircuitOpen = errors.New("generation circuit open")
)

// ErrorKind classifies provider failures for the retry policy.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindUnavailable
	KindThrottled
	KindTimeout
	KindInvalid
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindThrottled:
		return "throttled"
	case KindTimeout:
		return "timeout"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// ProviderError is returned by providers and translators.
type ProviderError struct {
	Provider   string
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Provider, e.Kind, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, msg)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is worth retrying: service unavailable,
// throttling, or timeout.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		switch pe.Kind {
		case KindUnavailable, KindThrottled, KindTimeout:
			return true
		default:
			return false
		}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return false
}

// KindForStatus maps an HTTP status code from a provider to an ErrorKind.
func KindForStatus(status int) ErrorKind {
	switch {
	case status == 429:
		return KindThrottled
	case status == 408:
		return KindTimeout
	case status == 500, status == 502, status == 503, status == 504:
		return KindUnavailable
	case status >= 400 && status < 500:
		return KindInvalid
	case status >= 500:
		return KindUnavailable
	default:
		return KindUnknown
	}
}
