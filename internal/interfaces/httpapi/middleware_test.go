package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/riskibarqy/match-center/internal/platform/logging"
	"github.com/riskibarqy/match-center/internal/platform/requestctx"
)

type fixedIDGenerator struct{ value string }

func (g fixedIDGenerator) NewID() (string, error) { return g.value, nil }

func TestRequestID_KeepsSaneInboundHeader(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = requestctx.RequestID(r.Context())
	})
	handler := RequestID(fixedIDGenerator{value: "generated"}, logging.NewNop(), next)

	req := httptest.NewRequest(http.MethodGet, "/api/matches", nil)
	req.Header.Set(requestIDHeader, "req-abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "req-abc-123" {
		t.Fatalf("unexpected request id in context: %q", seen)
	}
	if got := rec.Header().Get(requestIDHeader); got != "req-abc-123" {
		t.Fatalf("unexpected response request id: %q", got)
	}
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = requestctx.RequestID(r.Context())
	})
	handler := RequestID(fixedIDGenerator{value: "generated"}, logging.NewNop(), next)

	req := httptest.NewRequest(http.MethodGet, "/api/matches", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "generated" {
		t.Fatalf("unexpected request id in context: %q", seen)
	}
}

func TestResolveClientIP(t *testing.T) {
	tests := []struct {
		name    string
		forward string
		remote  string
		want    string
	}{
		{name: "forwarded chain", forward: "203.0.113.7, 10.0.0.1", remote: "10.0.0.2:5000", want: "203.0.113.7"},
		{name: "remote addr", remote: "192.0.2.10:443", want: "192.0.2.10"},
		{name: "garbage", forward: "nope", remote: "also-nope", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forward != "" {
				req.Header.Set("X-Forwarded-For", tt.forward)
			}
			if got := resolveClientIP(req); got != tt.want {
				t.Fatalf("resolveClientIP()=%q want=%q", got, tt.want)
			}
		})
	}
}
