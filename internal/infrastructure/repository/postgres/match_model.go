package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/match-center/internal/domain/match"
)

type matchTableModel struct {
	ID            int64         `db:"id"`
	MatchID       string        `db:"match_id"`
	HomeTeam      string        `db:"home_team"`
	AwayTeam      string        `db:"away_team"`
	HomeTeamID    string        `db:"home_team_id"`
	AwayTeamID    string        `db:"away_team_id"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	AwayScore     sql.NullInt64 `db:"away_score"`
	MatchDate     sql.NullTime  `db:"match_date"`
	Competition   string        `db:"competition"`
	League        string        `db:"league"`
	Status        string        `db:"status"`
	Venue         string        `db:"venue"`
	PxltGameID    string        `db:"pxlt_game_id"`
	SeasonName    string        `db:"season_name"`
	VideoURL      string        `db:"video_url"`
	HomeFormation []byte        `db:"home_formation"`
	AwayFormation []byte        `db:"away_formation"`
	MatchEvents   []byte        `db:"match_events"`
	Statistics    []byte        `db:"statistics"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

// matchWriteModel holds the columns written on insert and update.
type matchWriteModel struct {
	MatchID       string     `db:"match_id"`
	HomeTeam      string     `db:"home_team"`
	AwayTeam      string     `db:"away_team"`
	HomeTeamID    string     `db:"home_team_id"`
	AwayTeamID    string     `db:"away_team_id"`
	HomeScore     *int64     `db:"home_score"`
	AwayScore     *int64     `db:"away_score"`
	MatchDate     *time.Time `db:"match_date"`
	Competition   string     `db:"competition"`
	League        string     `db:"league"`
	Status        string     `db:"status"`
	Venue         string     `db:"venue"`
	PxltGameID    string     `db:"pxlt_game_id"`
	SeasonName    string     `db:"season_name"`
	VideoURL      string     `db:"video_url"`
	HomeFormation *string    `db:"home_formation"`
	AwayFormation *string    `db:"away_formation"`
	MatchEvents   *string    `db:"match_events"`
	Statistics    *string    `db:"statistics"`
}

type matchEventTableModel struct {
	ID        int64     `db:"id"`
	MatchID   int64     `db:"match_id"`
	PlayerID  int64     `db:"player_id"`
	EventType string    `db:"event_type"`
	Minute    int       `db:"minute"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type matchEventInsertModel struct {
	MatchID   int64  `db:"match_id"`
	PlayerID  int64  `db:"player_id"`
	EventType string `db:"event_type"`
	Minute    int    `db:"minute"`
}

var matchSelectColumns = []string{
	"id",
	"match_id",
	"home_team",
	"away_team",
	"home_team_id",
	"away_team_id",
	"home_score",
	"away_score",
	"match_date",
	"competition",
	"league",
	"status",
	"venue",
	"pxlt_game_id",
	"season_name",
	"video_url",
	"home_formation",
	"away_formation",
	"match_events",
	"statistics",
	"created_at",
	"updated_at",
}

var matchEventSelectColumns = []string{
	"id",
	"match_id",
	"player_id",
	"event_type",
	"minute",
	"created_at",
	"updated_at",
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:            row.ID,
		MatchID:       row.MatchID,
		HomeTeam:      row.HomeTeam,
		AwayTeam:      row.AwayTeam,
		HomeTeamID:    row.HomeTeamID,
		AwayTeamID:    row.AwayTeamID,
		HomeScore:     intFromNull(row.HomeScore),
		AwayScore:     intFromNull(row.AwayScore),
		MatchDate:     timeFromNull(row.MatchDate),
		Competition:   row.Competition,
		League:        row.League,
		Status:        row.Status,
		Venue:         row.Venue,
		PxltGameID:    row.PxltGameID,
		SeasonName:    row.SeasonName,
		VideoURL:      row.VideoURL,
		HomeFormation: jsonFromColumn(row.HomeFormation),
		AwayFormation: jsonFromColumn(row.AwayFormation),
		MatchEvents:   jsonFromColumn(row.MatchEvents),
		Statistics:    jsonFromColumn(row.Statistics),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func matchWriteModelFrom(m match.Match) matchWriteModel {
	status := m.Status
	if status == "" {
		status = match.DeriveStatus(m.HomeScore, m.AwayScore)
	}
	return matchWriteModel{
		MatchID:       m.MatchID,
		HomeTeam:      m.HomeTeam,
		AwayTeam:      m.AwayTeam,
		HomeTeamID:    m.HomeTeamID,
		AwayTeamID:    m.AwayTeamID,
		HomeScore:     nullableInt(m.HomeScore),
		AwayScore:     nullableInt(m.AwayScore),
		MatchDate:     nullableTime(m.MatchDate),
		Competition:   m.Competition,
		League:        m.League,
		Status:        status,
		Venue:         m.Venue,
		PxltGameID:    m.PxltGameID,
		SeasonName:    m.SeasonName,
		VideoURL:      m.VideoURL,
		HomeFormation: nullableJSON(m.HomeFormation),
		AwayFormation: nullableJSON(m.AwayFormation),
		MatchEvents:   nullableJSON(m.MatchEvents),
		Statistics:    nullableJSON(m.Statistics),
	}
}

func matchEventFromRow(row matchEventTableModel) match.Event {
	return match.Event{
		ID:        row.ID,
		MatchID:   row.MatchID,
		PlayerID:  row.PlayerID,
		Type:      match.EventType(row.EventType),
		Minute:    row.Minute,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
