// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	revhttp "github.com/wneessen/go-revgeo/internal/http"
)

// FailureKind is the closed set of expected provider failure modes.
type FailureKind string

const (
	FailureTimeout           FailureKind = "timeout"
	FailureRateLimited       FailureKind = "rate_limited"
	FailureNotFound          FailureKind = "not_found"
	FailureMalformedResponse FailureKind = "malformed_response"
	FailureUnreachable       FailureKind = "unreachable"
)

// Failure is a typed provider failure. Adapters return it for every expected
// failure mode so the resolver can inspect the kind and decide how to proceed.
type Failure struct {
	Provider string
	Kind     FailureKind
	Err      error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s: %s", f.Provider, f.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", f.Provider, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewFailure returns a new typed provider failure.
func NewFailure(provider string, kind FailureKind, err error) *Failure {
	return &Failure{Provider: provider, Kind: kind, Err: err}
}

// FailureFromHTTP maps a transport-level error from the shared HTTP client onto
// the failure taxonomy: context deadlines become timeouts, HTTP status codes are
// classified and JSON decoding problems count as malformed responses.
func FailureFromHTTP(provider string, err error) *Failure {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewFailure(provider, FailureTimeout, err)
	}

	var statusErr *revhttp.StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.Code == http.StatusTooManyRequests:
			return NewFailure(provider, FailureRateLimited, err)
		case statusErr.Code == http.StatusNotFound:
			return NewFailure(provider, FailureNotFound, err)
		case statusErr.Code >= 500:
			return NewFailure(provider, FailureUnreachable, err)
		default:
			return NewFailure(provider, FailureMalformedResponse, err)
		}
	}

	if errors.Is(err, revhttp.ErrDecodeJSON) {
		return NewFailure(provider, FailureMalformedResponse, err)
	}

	return NewFailure(provider, FailureUnreachable, err)
}

// AsFailure converts an arbitrary adapter error into a *Failure. Errors that are
// not already typed are classified as unreachable.
func AsFailure(provider string, err error) *Failure {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure
	}
	return NewFailure(provider, FailureUnreachable, err)
}

// ExhaustedError reports that every adapter in the chain failed. It carries the
// per-provider failures in attempt order for diagnosis.
type ExhaustedError struct {
	Failures []*Failure
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Error())
	}
	return "all geocoding providers failed: " + strings.Join(parts, "; ")
}
