// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wneessen/go-revgeo/internal/logger"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	return New(logger.New(slog.LevelError))
}

func TestNew(t *testing.T) {
	t.Run("creating a new client succeeds", func(t *testing.T) {
		client := testClient(t)
		if client == nil {
			t.Fatal("expected a non-nil client")
		}
	})
}

func TestClient_Get(t *testing.T) {
	t.Run("get decodes a JSON response", func(t *testing.T) {
		server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			if got := r.Header.Get("User-Agent"); !strings.Contains(got, "go-revgeo") {
				t.Errorf("expected custom user agent, got %q", got)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"answer": 42}`))
		}))
		defer server.Close()

		var target struct {
			Answer int `json:"answer"`
		}
		code, err := testClient(t).Get(context.Background(), server.URL, &target, nil, nil)
		if err != nil {
			t.Fatalf("failed to perform GET request: %s", err)
		}
		if code != stdhttp.StatusOK {
			t.Errorf("expected status code 200, got %d", code)
		}
		if target.Answer != 42 {
			t.Errorf("expected answer to be 42, got %d", target.Answer)
		}
	})
	t.Run("get with non-pointer target fails", func(t *testing.T) {
		var target struct{}
		_, err := testClient(t).Get(context.Background(), "http://localhost", target, nil, nil)
		if !errors.Is(err, ErrNonPointerTarget) {
			t.Errorf("expected ErrNonPointerTarget, got %s", err)
		}
	})
	t.Run("non-2xx status returns a StatusError with the body", func(t *testing.T) {
		server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			w.WriteHeader(stdhttp.StatusTooManyRequests)
			_, _ = w.Write([]byte(`rate limit exceeded`))
		}))
		defer server.Close()

		var target struct{}
		code, err := testClient(t).Get(context.Background(), server.URL, &target, nil, nil)
		if code != stdhttp.StatusTooManyRequests {
			t.Errorf("expected status code 429, got %d", code)
		}
		var statusErr *StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("expected a StatusError, got %s", err)
		}
		if statusErr.Code != stdhttp.StatusTooManyRequests {
			t.Errorf("expected StatusError code 429, got %d", statusErr.Code)
		}
		if !strings.Contains(string(statusErr.Body), "rate limit") {
			t.Errorf("expected StatusError body to be retained, got %q", statusErr.Body)
		}
	})
	t.Run("malformed JSON response fails to decode", func(t *testing.T) {
		server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			_, _ = w.Write([]byte(`{"answer":`))
		}))
		defer server.Close()

		var target struct{}
		_, err := testClient(t).Get(context.Background(), server.URL, &target, nil, nil)
		if err == nil {
			t.Fatal("expected decode to fail, but didn't")
		}
		if !errors.Is(err, ErrDecodeJSON) {
			t.Errorf("expected ErrDecodeJSON, got %s", err)
		}
	})
	t.Run("get honors the request timeout", func(t *testing.T) {
		server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second * 5):
			}
		}))
		defer server.Close()

		var target struct{}
		_, err := testClient(t).GetWithTimeout(context.Background(), server.URL, &target, nil, nil,
			time.Millisecond*50)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected context deadline error, got %s", err)
		}
	})
	t.Run("query parameters are encoded into the URL", func(t *testing.T) {
		server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			if got := r.URL.Query().Get("lat"); got != "40.7128" {
				t.Errorf("expected lat query parameter to be 40.7128, got %q", got)
			}
			_, _ = io.WriteString(w, `{}`)
		}))
		defer server.Close()

		var target struct{}
		query := map[string][]string{"lat": {"40.7128"}}
		if _, err := testClient(t).Get(context.Background(), server.URL, &target, query, nil); err != nil {
			t.Fatalf("failed to perform GET request: %s", err)
		}
	})
}
