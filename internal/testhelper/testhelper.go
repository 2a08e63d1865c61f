// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package testhelper provides shared helpers for the test suites.
package testhelper

import (
	"net/http"
	"os"
	"testing"
)

// MockRoundTripper allows stubbing HTTP responses in tests.
type MockRoundTripper struct {
	Fn func(req *http.Request) (*http.Response, error)
}

// RoundTrip satisfies the http.RoundTripper interface.
func (m MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Fn(req)
}

// PerformIntegrationTests skips the calling test unless integration tests have
// been enabled via the PERFORM_INTEGRATION_TESTS environment variable.
func PerformIntegrationTests(t *testing.T) {
	t.Helper()
	if os.Getenv("PERFORM_INTEGRATION_TESTS") == "" {
		t.Skip("integration tests are disabled, set PERFORM_INTEGRATION_TESTS to enable them")
	}
}
