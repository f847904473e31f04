package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/match-center/internal/platform/requestctx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_InfoContextAddsRequestID(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := FromZap(zap.New(core))

	ctx := requestctx.With(context.Background(), requestctx.Meta{RequestID: "req-42"})
	logger.InfoContext(ctx, "sync finished", "synced", 2, "error", errors.New("boom"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("unexpected entry count: got=%d want=1", len(entries))
	}
	fields := entries[0].ContextMap()
	if got := fields["request_id"]; got != "req-42" {
		t.Fatalf("unexpected request_id: got=%v want=req-42", got)
	}
	if got := fields["synced"]; got != int64(2) {
		t.Fatalf("unexpected synced field: got=%v", got)
	}
	if got := fields["error"]; got != "boom" {
		t.Fatalf("unexpected error field: got=%v", got)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	logger := FromZap(zap.New(core))

	logger.Info("dropped")
	logger.Warn("kept", "key")

	if logs.Len() != 1 {
		t.Fatalf("unexpected entry count: got=%d want=1", logs.Len())
	}
	if _, ok := logs.All()[0].ContextMap()["key"]; !ok {
		t.Fatalf("expected dangling key to be logged with nil value")
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]Level{
		"debug":   LevelDebug,
		"WARNING": LevelWarn,
		" error ": LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for raw, want := range cases {
		if got := ParseLevel(raw); got != want {
			t.Fatalf("ParseLevel(%q): got=%s want=%s", raw, got, want)
		}
	}
}

func TestSetMirror_ReceivesEnabledEntriesOnly(t *testing.T) {
	var got []string
	SetMirror(func(_ context.Context, level Level, msg string, _ ...any) {
		got = append(got, level.String()+":"+msg)
	})
	t.Cleanup(func() { SetMirror(nil) })

	core, _ := observer.New(zapcore.InfoLevel)
	logger := FromZap(zap.New(core))

	logger.Debug("dropped")
	logger.WarnContext(context.Background(), "enrich failed", "match_id", "m-1")

	if len(got) != 1 || got[0] != "warn:enrich failed" {
		t.Fatalf("unexpected mirrored entries: %v", got)
	}
}
