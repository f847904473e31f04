package match

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrDuplicateMatchID is returned by repositories when an insert collides on match_id.
var ErrDuplicateMatchID = errors.New("duplicate match id")

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
)

// Match is one fixture observed from the upstream provider or created by hand.
// MatchID is the provider's identifier and the upsert key.
type Match struct {
	ID            int64
	MatchID       string
	HomeTeam      string
	AwayTeam      string
	HomeTeamID    string
	AwayTeamID    string
	HomeScore     *int
	AwayScore     *int
	MatchDate     *time.Time
	Competition   string
	League        string
	Status        string
	Venue         string
	PxltGameID    string
	SeasonName    string
	VideoURL      string
	HomeFormation json.RawMessage
	AwayFormation json.RawMessage
	MatchEvents   json.RawMessage
	Statistics    json.RawMessage
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Patch carries a partial update. Nil fields are left unchanged.
type Patch struct {
	HomeTeam      *string
	AwayTeam      *string
	HomeTeamID    *string
	AwayTeamID    *string
	HomeScore     *int
	AwayScore     *int
	MatchDate     *time.Time
	Competition   *string
	League        *string
	Status        *string
	Venue         *string
	PxltGameID    *string
	SeasonName    *string
	VideoURL      *string
	HomeFormation json.RawMessage
	AwayFormation json.RawMessage
	MatchEvents   json.RawMessage
	Statistics    json.RawMessage
}

func (p Patch) Apply(m *Match) {
	setString(&m.HomeTeam, p.HomeTeam)
	setString(&m.AwayTeam, p.AwayTeam)
	setString(&m.HomeTeamID, p.HomeTeamID)
	setString(&m.AwayTeamID, p.AwayTeamID)
	setString(&m.Competition, p.Competition)
	setString(&m.League, p.League)
	setString(&m.Status, p.Status)
	setString(&m.Venue, p.Venue)
	setString(&m.PxltGameID, p.PxltGameID)
	setString(&m.SeasonName, p.SeasonName)
	setString(&m.VideoURL, p.VideoURL)
	if p.HomeScore != nil {
		v := *p.HomeScore
		m.HomeScore = &v
	}
	if p.AwayScore != nil {
		v := *p.AwayScore
		m.AwayScore = &v
	}
	if p.MatchDate != nil {
		v := *p.MatchDate
		m.MatchDate = &v
	}
	if p.HomeFormation != nil {
		m.HomeFormation = p.HomeFormation
	}
	if p.AwayFormation != nil {
		m.AwayFormation = p.AwayFormation
	}
	if p.MatchEvents != nil {
		m.MatchEvents = p.MatchEvents
	}
	if p.Statistics != nil {
		m.Statistics = p.Statistics
	}
}

func (p Patch) IsEmpty() bool {
	return p.HomeTeam == nil && p.AwayTeam == nil && p.HomeTeamID == nil && p.AwayTeamID == nil &&
		p.HomeScore == nil && p.AwayScore == nil && p.MatchDate == nil &&
		p.Competition == nil && p.League == nil && p.Status == nil && p.Venue == nil &&
		p.PxltGameID == nil && p.SeasonName == nil && p.VideoURL == nil &&
		p.HomeFormation == nil && p.AwayFormation == nil && p.MatchEvents == nil && p.Statistics == nil
}

// DeriveStatus returns completed when both scores are known, otherwise scheduled.
func DeriveStatus(homeScore, awayScore *int) string {
	if homeScore != nil && awayScore != nil {
		return StatusCompleted
	}
	return StatusScheduled
}

// MergeDetail overlays non-empty upstream values onto the stored row.
func MergeDetail(stored Match, videoURL, pxltGameID string) Match {
	if v := strings.TrimSpace(videoURL); v != "" {
		stored.VideoURL = v
	}
	if v := strings.TrimSpace(pxltGameID); v != "" {
		stored.PxltGameID = v
	}
	return stored
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
