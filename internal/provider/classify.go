package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

// StatusError maps a non-2xx HTTP status from a model API to an upstream kind.
func StatusError(name string, status int, cause error) error {
	var kind error
	switch {
	case status == http.StatusTooManyRequests:
		kind = domain.ErrUpstreamQuota
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = domain.ErrUpstreamAuth
	default:
		kind = domain.ErrUpstreamNetwork
	}
	if cause == nil {
		cause = fmt.Errorf("status %d", status)
	}
	return fmt.Errorf("%s: %w: %w", name, kind, cause)
}

// TransportError classifies a failure that happened before any HTTP status was
// received. Context cancellation is passed through unchanged.
func TransportError(name string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", name, err)
	}
	return fmt.Errorf("%s: %w: %w", name, domain.ErrUpstreamNetwork, err)
}

// MalformedError marks an unusable but successful reply.
func MalformedError(name string, err error) error {
	if errors.Is(err, domain.ErrUpstreamMalformed) {
		return fmt.Errorf("%s: %w", name, err)
	}
	return fmt.Errorf("%s: %w: %w", name, domain.ErrUpstreamMalformed, err)
}
