// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tomtom215/travia/internal/logging"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		wantSame bool
	}{
		{name: "generated", incoming: ""},
		{name: "upstream kept", incoming: "abc-123", wantSame: true},
		{name: "control characters rejected", incoming: "abc\n123"},
		{name: "too long rejected", incoming: strings.Repeat("a", maxRequestIDLength+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = logging.RequestIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			if got == "" {
				t.Fatal("response has no request ID")
			}
			if got != seen {
				t.Errorf("context ID = %q, header ID = %q", seen, got)
			}
			if tt.wantSame && got != tt.incoming {
				t.Errorf("RequestID() = %q, want %q", got, tt.incoming)
			}
			if !tt.wantSame && got == tt.incoming {
				t.Errorf("RequestID() kept %q, want a generated ID", tt.incoming)
			}
		})
	}
}

func TestRoutePattern(t *testing.T) {
	var pattern string
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req)
			pattern = routePattern(req)
		})
	})
	r.Get("/api/v1/users/{id}", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/users/42", nil))
	if pattern != "/api/v1/users/{id}" {
		t.Errorf("routePattern() = %q, want %q", pattern, "/api/v1/users/{id}")
	}

	if got := routePattern(httptest.NewRequest(http.MethodGet, "/x", nil)); got != unmatchedRoute {
		t.Errorf("routePattern() without chi = %q, want %q", got, unmatchedRoute)
	}
}

func TestPrometheusMetrics_PassesStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "ok", status: http.StatusOK},
		{name: "created", status: http.StatusCreated},
		{name: "server error", status: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/test", nil))
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestStatusWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := newStatusWriter(rec)
	if _, err := sw.Write([]byte("ok")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	sw.WriteHeader(http.StatusTeapot)
	if sw.status != http.StatusOK {
		t.Errorf("status after implicit 200 = %d, want %d", sw.status, http.StatusOK)
	}
	if sw.Unwrap() != rec {
		t.Error("Unwrap() did not return the wrapped writer")
	}
}

func TestAccessLog(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		sleep     time.Duration
		wantLevel string
	}{
		{name: "fast request", status: http.StatusOK, wantLevel: `"level":"debug"`},
		{name: "slow request", status: http.StatusOK, sleep: 20 * time.Millisecond, wantLevel: `"level":"warn"`},
		{name: "server error", status: http.StatusServiceUnavailable, wantLevel: `"level":"error"`},
	}
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := logging.NewTestLogger(&buf)

			h := AccessLog(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(tt.sleep)
				w.WriteHeader(tt.status)
			}))
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req = req.WithContext(logging.ContextWithLogger(req.Context(), logger))
			h.ServeHTTP(httptest.NewRecorder(), req)

			out := buf.String()
			if !strings.Contains(out, tt.wantLevel) {
				t.Errorf("log = %s, want %s", out, tt.wantLevel)
			}
			if !strings.Contains(out, `"message":"HTTP request"`) {
				t.Errorf("log = %s, want access log message", out)
			}
		})
	}
}
