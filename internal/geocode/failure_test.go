// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"errors"
	"fmt"
	"testing"

	revhttp "github.com/wneessen/go-revgeo/internal/http"
)

func TestFailureFromHTTP(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"deadline exceeded maps to timeout", context.DeadlineExceeded, FailureTimeout},
		{"cancellation maps to timeout", context.Canceled, FailureTimeout},
		{"HTTP 429 maps to rate limited", &revhttp.StatusError{Code: 429}, FailureRateLimited},
		{"HTTP 404 maps to not found", &revhttp.StatusError{Code: 404}, FailureNotFound},
		{"HTTP 500 maps to unreachable", &revhttp.StatusError{Code: 500}, FailureUnreachable},
		{"HTTP 401 maps to malformed response", &revhttp.StatusError{Code: 401}, FailureMalformedResponse},
		{
			"wrapped decode error maps to malformed response",
			fmt.Errorf("%w: unexpected EOF", revhttp.ErrDecodeJSON),
			FailureMalformedResponse,
		},
		{"anything else maps to unreachable", errors.New("connection refused"), FailureUnreachable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failure := FailureFromHTTP("test-provider", tt.err)
			if failure.Kind != tt.want {
				t.Errorf("expected failure kind %q, got %q", tt.want, failure.Kind)
			}
			if failure.Provider != "test-provider" {
				t.Errorf("expected provider to be test-provider, got %q", failure.Provider)
			}
			if !errors.Is(failure, tt.err) {
				t.Error("expected the failure to wrap the original error")
			}
		})
	}
}
