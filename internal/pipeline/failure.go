// WikiScope - Wiki Edit History Statistics
// Copyright 2026 WikiScope contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wikiscope/wikiscope

package pipeline

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FailureKind classifies recoverable entity-resolution failures.
type FailureKind int

const (
	// InvalidProject means the project does not exist.
	InvalidProject FailureKind = iota

	// UnsupportedProject means the project exists but is not in the
	// tool's allow-list.
	UnsupportedProject

	// UserNotFound means the project confirmed the named account does
	// not exist there.
	UserNotFound

	// PageNotFound means the page does not exist on the project.
	PageNotFound

	// IPRangeTooWide means a CIDR range exceeds the per-family width limit.
	IPRangeTooWide

	// NotOptedIn means the target user has not consented to exposing
	// restricted statistics.
	NotOptedIn
)

// String returns a stable tag used for metrics labels and logging.
func (k FailureKind) String() string {
	switch k {
	case InvalidProject:
		return "invalid_project"
	case UnsupportedProject:
		return "unsupported_project"
	case UserNotFound:
		return "user_not_found"
	case PageNotFound:
		return "page_not_found"
	case IPRangeTooWide:
		return "ip_range_too_wide"
	case NotOptedIn:
		return "not_opted_in"
	default:
		return "unknown"
	}
}

// HTTPStatus returns the status code surfaced to API callers.
func (k FailureKind) HTTPStatus() int {
	switch k {
	case IPRangeTooWide:
		return http.StatusBadRequest
	case NotOptedIn:
		return http.StatusUnauthorized
	default:
		return http.StatusNotFound
	}
}

// ResolveFailure is a recoverable resolution failure. HTML flows redirect
// to the tool's index with a flash message and the offending parameter
// stripped; API flows return a structured error object.
type ResolveFailure struct {
	Kind FailureKind

	// MessageKey is the i18n key of the user-facing message.
	MessageKey string

	// MessageArgs are positional arguments for the message.
	MessageArgs []string

	// StripParam names the invalid parameter to remove before redirecting,
	// preventing the index route from re-triggering the same failure.
	StripParam string
}

// Error implements the error interface.
func (f *ResolveFailure) Error() string {
	if len(f.MessageArgs) == 0 {
		return fmt.Sprintf("%s: %s", f.Kind, f.MessageKey)
	}
	return fmt.Sprintf("%s: %s [%s]", f.Kind, f.MessageKey, strings.Join(f.MessageArgs, ", "))
}

// AsResolveFailure unwraps err into a *ResolveFailure, or returns nil when
// err is of a different kind (e.g. a downstream I/O failure).
func AsResolveFailure(err error) *ResolveFailure {
	var failure *ResolveFailure
	if errors.As(err, &failure) {
		return failure
	}
	return nil
}

// Downstream failure sentinels. Repository implementations wrap these so
// callers can degrade gracefully instead of returning a hard 500.
var (
	// ErrDownstreamUnavailable indicates the backing data source rejected
	// the request, e.g. an open circuit breaker.
	ErrDownstreamUnavailable = errors.New("downstream data source unavailable")

	// ErrDownstreamTimeout indicates the backing data source timed out.
	ErrDownstreamTimeout = errors.New("downstream data source timed out")
)
