// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

var (
	// ErrManifestFetch indicates the manifest or a script could not be fetched
	// or the response could not be parsed.
	ErrManifestFetch = errors.New("manifest fetch failed")

	// ErrNetworkTimeout indicates a request exceeded the client timeout.
	ErrNetworkTimeout = errors.New("network timeout")

	// ErrRefNotFound indicates the requested Git ref does not exist.
	ErrRefNotFound = errors.New("ref not found")
)

type (
	// FetchError describes a failed manifest or download request.
	// It wraps ErrManifestFetch so callers can use errors.Is for classification.
	FetchError struct {
		Op  string // "fetch manifest" or "download script"
		URL string // redacted request URL
		Err error
	}

	// TimeoutError is returned when a request exceeds the client timeout.
	// It wraps ErrNetworkTimeout and is deliberately distinct from FetchError.
	TimeoutError struct {
		Op      string
		URL     string
		Timeout time.Duration
	}

	// RateLimitError is returned when the GitHub API rate limit is exceeded.
	RateLimitError struct {
		Limit     int
		Remaining int
		ResetAt   time.Time
	}
)

// Error returns a single-line description of the failed request.
func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *FetchError) Unwrap() []error {
	return []error{ErrManifestFetch, e.Err}
}

// Error returns a single-line description of the timed out request.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s %s: timed out after %s", e.Op, e.URL, e.Timeout)
}

// Unwrap returns ErrNetworkTimeout for errors.Is() compatibility.
func (e *TimeoutError) Unwrap() error { return ErrNetworkTimeout }

// Error formats the rate limit details as a human-readable message.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GitHub API rate limit exceeded (%d remaining, resets at %s)",
		e.Remaining, e.ResetAt.UTC().Format("15:04 UTC"))
}

// Unwrap returns ErrManifestFetch: a rate limited manifest is an unfetchable one.
func (e *RateLimitError) Unwrap() error { return ErrManifestFetch }

// isTimeout reports whether err came from a deadline rather than a transport failure.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
