package match

import (
	"strings"
	"time"
)

type EventType string

const (
	EventGoal         EventType = "goal"
	EventYellowCard   EventType = "yellow_card"
	EventRedCard      EventType = "red_card"
	EventSubstitution EventType = "substitution"
)

// Event is one timeline entry for a player within a match.
// MatchID and PlayerID reference primary keys, not provider ids.
type Event struct {
	ID        int64
	MatchID   int64
	PlayerID  int64
	Type      EventType
	Minute    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParseEventType maps provider labels onto the known event types.
func ParseEventType(raw string) (EventType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "goal", "goals":
		return EventGoal, true
	case "yellow_card", "yellow", "yellows", "yellow card":
		return EventYellowCard, true
	case "red_card", "red", "reds", "red card":
		return EventRedCard, true
	case "substitution", "sub", "subs", "substitute":
		return EventSubstitution, true
	default:
		return "", false
	}
}

func (t EventType) endsAppearance() bool {
	return t == EventSubstitution || t == EventRedCard
}
