package player

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrDuplicatePlayerID is returned by repositories when an insert collides on player_id.
var ErrDuplicatePlayerID = errors.New("duplicate player id")

const (
	PositionGoalkeeper = "GK"
	PositionForward    = "FW"
)

// Player is one athlete known to the provider. PlayerID is the provider's
// identifier and the upsert key.
type Player struct {
	ID          int64
	PlayerID    string
	TeamID      string
	FirstName   string
	LastName    string
	ShirtNumber *int
	Position    string
	IsStarter   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Player) Validate() error {
	if strings.TrimSpace(p.PlayerID) == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.TeamID) == "" {
		return fmt.Errorf("player team id is required")
	}
	if p.ShirtNumber != nil && *p.ShirtNumber < 0 {
		return fmt.Errorf("player shirt number must be >= 0")
	}
	return nil
}

func (p Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// SplitName treats the last whitespace-separated token as the last name.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}

// Patch carries a partial update. Nil fields are left unchanged.
type Patch struct {
	TeamID      *string
	FirstName   *string
	LastName    *string
	ShirtNumber *int
	Position    *string
	IsStarter   *bool
}

func (p Patch) Apply(pl *Player) {
	if p.TeamID != nil {
		pl.TeamID = strings.TrimSpace(*p.TeamID)
	}
	if p.FirstName != nil {
		pl.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		pl.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.ShirtNumber != nil {
		v := *p.ShirtNumber
		pl.ShirtNumber = &v
	}
	if p.Position != nil {
		pl.Position = strings.TrimSpace(*p.Position)
	}
	if p.IsStarter != nil {
		pl.IsStarter = *p.IsStarter
	}
}
