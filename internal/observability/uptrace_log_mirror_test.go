package observability

import (
	"testing"

	otellog "go.opentelemetry.io/otel/log"
)

func TestShouldSkipUptraceLog(t *testing.T) {
	if !shouldSkipUptraceLog("http request", []any{"method", "GET", "path", "/api/health/ready"}) {
		t.Fatalf("expected probe log to be skipped")
	}
	if shouldSkipUptraceLog("http request", []any{"path", "/api/matches/feed"}) {
		t.Fatalf("did not expect non-probe log to be skipped")
	}
	if shouldSkipUptraceLog("league sync finished", []any{"path", "/api/health"}) {
		t.Fatalf("did not expect non-request event to be skipped")
	}
}

func TestBuildOTelLogAttributes(t *testing.T) {
	attrs := buildOTelLogAttributes([]any{"league_id", "726", "synced", 2, "payload"})
	if len(attrs) != 3 {
		t.Fatalf("expected 3 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "league_id" || attrs[0].Value.AsString() != "726" {
		t.Fatalf("unexpected league_id attribute")
	}
	if attrs[1].Key != "synced" || attrs[1].Value.AsInt64() != 2 {
		t.Fatalf("unexpected synced attribute")
	}
	if attrs[2].Key != "payload" || attrs[2].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected payload attribute")
	}
}

func TestToOTelLogValue_Map(t *testing.T) {
	v := toOTelLogValue(map[string]any{
		"passing": 7,
		"starter": true,
	}, 0)
	if v.Kind() != otellog.KindMap {
		t.Fatalf("expected map value, got %s", v.Kind())
	}
	if items := v.AsMap(); len(items) != 2 {
		t.Fatalf("expected 2 map items, got %d", len(items))
	}
}
