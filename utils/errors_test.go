package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestClassifyHTTPStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ServiceKind
	}{
		{http.StatusUnauthorized, ServiceAuth},
		{http.StatusForbidden, ServiceAuth},
		{http.StatusTooManyRequests, ServiceRateLimit},
		{http.StatusRequestTimeout, ServiceTimeout},
		{http.StatusGatewayTimeout, ServiceTimeout},
		{http.StatusInternalServerError, ServiceUnknown},
		{http.StatusBadRequest, ServiceUnknown},
	}
	for _, tt := range tests {
		got := ClassifyHTTPStatus(tt.status, "body")
		if got.Kind != tt.want {
			t.Errorf("ClassifyHTTPStatus(%d).Kind = %s, want %s", tt.status, got.Kind, tt.want)
		}
	}
}

func TestIsRateLimited(t *testing.T) {
	rate := ClassifyHTTPStatus(http.StatusTooManyRequests, "slow down")
	if !IsRateLimited(rate) {
		t.Error("expected a 429 classification to be rate limited")
	}

	wrapped := fmt.Errorf("dispatch failed: %w", rate)
	if !IsRateLimited(wrapped) {
		t.Error("expected IsRateLimited to see through wrapping")
	}

	if IsRateLimited(ClassifyHTTPStatus(http.StatusUnauthorized, "no")) {
		t.Error("auth errors are not rate limits")
	}
	if IsRateLimited(errors.New("plain")) {
		t.Error("plain errors are not rate limits")
	}
}

func TestServiceErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	se := &ServiceError{Kind: ServiceTimeout, Err: inner}
	if !errors.Is(se, inner) {
		t.Error("expected ServiceError to unwrap to its cause")
	}
}
