package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/match-center/internal/domain/player"
)

type playerTableModel struct {
	ID          int64         `db:"id"`
	PlayerID    string        `db:"player_id"`
	TeamID      string        `db:"team_id"`
	FirstName   string        `db:"fname"`
	LastName    string        `db:"lname"`
	ShirtNumber sql.NullInt64 `db:"shirt_number"`
	Position    string        `db:"position"`
	IsStarter   bool          `db:"is_starter"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

type playerWriteModel struct {
	PlayerID    string `db:"player_id"`
	TeamID      string `db:"team_id"`
	FirstName   string `db:"fname"`
	LastName    string `db:"lname"`
	ShirtNumber *int64 `db:"shirt_number"`
	Position    string `db:"position"`
	IsStarter   bool   `db:"is_starter"`
}

// playerUpsertRow adds the insert-or-update marker returned by upserts.
type playerUpsertRow struct {
	playerTableModel
	Created bool `db:"created"`
}

var playerSelectColumns = []string{
	"id",
	"player_id",
	"team_id",
	"fname",
	"lname",
	"shirt_number",
	"position",
	"is_starter",
	"created_at",
	"updated_at",
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:          row.ID,
		PlayerID:    row.PlayerID,
		TeamID:      row.TeamID,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		ShirtNumber: intFromNull(row.ShirtNumber),
		Position:    row.Position,
		IsStarter:   row.IsStarter,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func playerWriteModelFrom(p player.Player) playerWriteModel {
	return playerWriteModel{
		PlayerID:    p.PlayerID,
		TeamID:      p.TeamID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		ShirtNumber: nullableInt(p.ShirtNumber),
		Position:    p.Position,
		IsStarter:   p.IsStarter,
	}
}
