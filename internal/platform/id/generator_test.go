package id

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator_NewID(t *testing.T) {
	t.Parallel()

	gen := NewUUIDGenerator()
	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %q twice", first)
	}
	if _, err := uuid.Parse(first); err != nil {
		t.Fatalf("expected uuid, got %q: %v", first, err)
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	if got, ok := Sanitize("  abc-123 "); !ok || got != "abc-123" {
		t.Fatalf("unexpected sanitize result: got=%q ok=%t", got, ok)
	}
	if _, ok := Sanitize("has space"); ok {
		t.Fatalf("expected id with inner space to be rejected")
	}
	if _, ok := Sanitize(strings.Repeat("x", maxInboundIDLength+1)); ok {
		t.Fatalf("expected oversized id to be rejected")
	}
	if _, ok := Sanitize(""); ok {
		t.Fatalf("expected empty id to be rejected")
	}
}
