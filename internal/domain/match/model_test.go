package match

import (
	"encoding/json"
	"testing"
)

func TestPatchApply(t *testing.T) {
	t.Parallel()

	m := Match{ID: 7, MatchID: "m-7", HomeTeam: "Arsenal", Competition: "Cup"}
	home := " Chelsea "
	score := 2
	p := Patch{HomeTeam: &home, HomeScore: &score, Statistics: json.RawMessage(`{"shots":4}`)}
	if p.IsEmpty() {
		t.Fatalf("expected patch to be non-empty")
	}

	p.Apply(&m)
	if m.HomeTeam != "Chelsea" {
		t.Fatalf("unexpected home team: got=%q want=Chelsea", m.HomeTeam)
	}
	if m.HomeScore == nil || *m.HomeScore != 2 {
		t.Fatalf("unexpected home score: %v", m.HomeScore)
	}
	score = 5
	if *m.HomeScore != 2 {
		t.Fatalf("patch aliases caller memory")
	}
	if m.Competition != "Cup" || m.MatchID != "m-7" || m.ID != 7 {
		t.Fatalf("untouched fields changed: %+v", m)
	}
	if !(Patch{}).IsEmpty() {
		t.Fatalf("expected zero patch to be empty")
	}
}

func TestDeriveStatus(t *testing.T) {
	t.Parallel()

	one := 1
	if got := DeriveStatus(&one, &one); got != StatusCompleted {
		t.Fatalf("unexpected status: got=%s want=%s", got, StatusCompleted)
	}
	if got := DeriveStatus(&one, nil); got != StatusScheduled {
		t.Fatalf("unexpected status: got=%s want=%s", got, StatusScheduled)
	}
}

func TestParseEventType(t *testing.T) {
	t.Parallel()

	cases := map[string]EventType{
		"goals":       EventGoal,
		"Yellow Card": EventYellowCard,
		"reds":        EventRedCard,
		"subs":        EventSubstitution,
	}
	for raw, want := range cases {
		got, ok := ParseEventType(raw)
		if !ok || got != want {
			t.Fatalf("ParseEventType(%q): got=%s ok=%t want=%s", raw, got, ok, want)
		}
	}
	if _, ok := ParseEventType("corner"); ok {
		t.Fatalf("expected unknown event type to be rejected")
	}
}
