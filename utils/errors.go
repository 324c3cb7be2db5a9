package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Error taxonomy for the outbound gateway and persistence layer. Every
// lower-level failure is re-classified into one of these before it
// crosses a service boundary, so callers switch on type instead of
// string-matching messages.

// ServiceKind classifies a remote API failure.
type ServiceKind string

const (
	ServiceAuth      ServiceKind = "auth"
	ServiceTimeout   ServiceKind = "timeout"
	ServiceRateLimit ServiceKind = "rate_limit"
	ServiceUnknown   ServiceKind = "unknown"
)

// ServiceError is a failure of a remote collaborator (LLM, TTS). Only
// rate-limit errors are retried, and only by the dispatcher.
type ServiceError struct {
	Kind ServiceKind
	Err  error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error (%s): %v", e.Kind, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// ClassifyHTTPStatus maps a remote status code onto a ServiceError once,
// at the boundary.
func ClassifyHTTPStatus(status int, body string) *ServiceError {
	kind := ServiceUnknown
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = ServiceAuth
	case status == http.StatusTooManyRequests:
		kind = ServiceRateLimit
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		kind = ServiceTimeout
	}
	return &ServiceError{Kind: kind, Err: fmt.Errorf("remote API error %d: %s", status, body)}
}

// IsRateLimited reports whether err is a rate-limit ServiceError.
func IsRateLimited(err error) bool {
	var se *ServiceError
	return errors.As(err, &se) && se.Kind == ServiceRateLimit
}

// ValidationError rejects bad user input (image format/size). Surfaced,
// never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "validation failed: " + e.Reason }

// ParseError means the LLM returned something that is not the JSON we
// asked for. Retrying would not guarantee a parseable result.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "failed to parse model response: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

// Sentinel business-rule errors.
var (
	// ErrDuplicateSubmission rejects a save of the same product within
	// the configured window, or a second waitlist entry per email.
	ErrDuplicateSubmission = errors.New("duplicate submission")

	// ErrOwnership rejects access to a record owned by another user.
	ErrOwnership = errors.New("record not found or access denied")

	// ErrPreferencesMissing means enrichment was asked to run without a
	// preferences record to compare against.
	ErrPreferencesMissing = errors.New("user preferences not found")
)
