package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/domain/player"
)

// MatchProvider reads league lists and match details from the upstream
// analytics API. Implementations return normalized records.
type MatchProvider interface {
	FetchLeagueMatches(ctx context.Context, leagueID, seasonID string) (LeagueMatches, error)
	FetchMatchDetail(ctx context.Context, matchID string) (ExternalMatchDetail, error)
}

// LeagueMatches is one normalized league list. Rejected counts raw records
// dropped because no external id could be resolved.
type LeagueMatches struct {
	Matches  []ExternalMatch
	Rejected int
}

func (l LeagueMatches) Total() int {
	return len(l.Matches) + l.Rejected
}

type ExternalMatch struct {
	ExternalID    string          `json:"match_id"`
	HomeTeam      string          `json:"home_team"`
	AwayTeam      string          `json:"away_team"`
	HomeTeamID    string          `json:"home_team_id,omitempty"`
	AwayTeamID    string          `json:"away_team_id,omitempty"`
	HomeScore     *int            `json:"home_score"`
	AwayScore     *int            `json:"away_score"`
	Kickoff       *time.Time      `json:"match_date"`
	Competition   string          `json:"competition,omitempty"`
	League        string          `json:"league,omitempty"`
	Status        string          `json:"status,omitempty"`
	Venue         string          `json:"venue,omitempty"`
	PxltGameID    string          `json:"pxlt_game_id,omitempty"`
	SeasonName    string          `json:"season_name,omitempty"`
	VideoURL      string          `json:"video_url,omitempty"`
	HomeFormation json.RawMessage `json:"home_formation,omitempty"`
	AwayFormation json.RawMessage `json:"away_formation,omitempty"`
	Events        json.RawMessage `json:"match_events,omitempty"`
	Statistics    json.RawMessage `json:"statistics,omitempty"`
}

// ToDomain maps the normalized record onto a storable match row.
func (e ExternalMatch) ToDomain() match.Match {
	status := e.Status
	if status == "" {
		status = match.DeriveStatus(e.HomeScore, e.AwayScore)
	}
	return match.Match{
		MatchID:       e.ExternalID,
		HomeTeam:      e.HomeTeam,
		AwayTeam:      e.AwayTeam,
		HomeTeamID:    e.HomeTeamID,
		AwayTeamID:    e.AwayTeamID,
		HomeScore:     e.HomeScore,
		AwayScore:     e.AwayScore,
		MatchDate:     e.Kickoff,
		Competition:   e.Competition,
		League:        e.League,
		Status:        status,
		Venue:         e.Venue,
		PxltGameID:    e.PxltGameID,
		SeasonName:    e.SeasonName,
		VideoURL:      e.VideoURL,
		HomeFormation: e.HomeFormation,
		AwayFormation: e.AwayFormation,
		MatchEvents:   e.Events,
		Statistics:    e.Statistics,
	}
}

// ExternalMatchDetail is the normalized upstream /match payload.
type ExternalMatchDetail struct {
	Match      ExternalMatch
	VideoURL   string
	PxltGameID string
	Players    []ExternalRosterPlayer
}

type ExternalRosterPlayer struct {
	ExternalID  string
	TeamID      string
	FirstName   string
	LastName    string
	ShirtNumber *int
	Position    string
	IsStarter   bool
	Events      []ExternalPlayerEvent
}

func (p ExternalRosterPlayer) ToDomain() player.Player {
	return player.Player{
		PlayerID:    p.ExternalID,
		TeamID:      p.TeamID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		ShirtNumber: p.ShirtNumber,
		Position:    p.Position,
		IsStarter:   p.IsStarter,
	}
}

type ExternalPlayerEvent struct {
	Type   match.EventType
	Minute int
}
