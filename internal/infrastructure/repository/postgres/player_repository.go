package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-center/internal/domain/player"
	qb "github.com/riskibarqy/match-center/internal/platform/querybuilder"
)

const playerIDConstraint = "uq_players_player_id"

// xmax is zero only for rows this statement inserted.
const playerUpsertSuffix = `ON CONFLICT (player_id) DO UPDATE SET
	team_id = COALESCE(NULLIF(EXCLUDED.team_id, ''), players.team_id),
	fname = COALESCE(NULLIF(EXCLUDED.fname, ''), players.fname),
	lname = COALESCE(NULLIF(EXCLUDED.lname, ''), players.lname),
	shirt_number = COALESCE(EXCLUDED.shirt_number, players.shirt_number),
	position = COALESCE(NULLIF(EXCLUDED.position, ''), players.position),
	is_starter = EXCLUDED.is_starter,
	updated_at = NOW()`

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// List returns every player, or one team's squad when teamID is set.
func (r *PlayerRepository) List(ctx context.Context, teamID string) ([]player.Player, error) {
	builder := qb.Select(playerSelectColumns...).From("players")
	if teamID = strings.TrimSpace(teamID); teamID != "" {
		builder = builder.Where(qb.Eq("team_id", teamID))
	}
	query, args, err := builder.OrderBy("team_id", "shirt_number NULLS LAST", "id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (player.Player, bool, error) {
	return r.getOne(ctx, "id", qb.Eq("id", id))
}

func (r *PlayerRepository) GetByExternalID(ctx context.Context, playerID string) (player.Player, bool, error) {
	return r.getOne(ctx, "player_id", qb.Eq("player_id", strings.TrimSpace(playerID)))
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) (player.Player, error) {
	query, args, err := qb.InsertModel("players", playerWriteModelFrom(p), "RETURNING "+strings.Join(playerSelectColumns, ", "))
	if err != nil {
		return player.Player{}, fmt.Errorf("build insert player query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isUniqueViolation(err, playerIDConstraint) {
			return player.Player{}, fmt.Errorf("%w: %s", player.ErrDuplicatePlayerID, p.PlayerID)
		}
		return player.Player{}, fmt.Errorf("insert player: %w", err)
	}
	return playerFromRow(row), nil
}

func (r *PlayerRepository) Update(ctx context.Context, id int64, patch player.Patch) (player.Player, bool, error) {
	var (
		out   player.Player
		found bool
	)
	err := withTx(ctx, r.db, "update player", func(tx *sqlx.Tx) error {
		query, args, err := qb.Select(playerSelectColumns...).From("players").
			Where(qb.Eq("id", id)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build lock player query: %w", err)
		}

		var current playerTableModel
		if err := tx.GetContext(ctx, &current, query+" FOR UPDATE", args...); err != nil {
			if isNotFound(err) {
				return nil
			}
			return fmt.Errorf("lock player id=%d: %w", id, err)
		}

		next := playerFromRow(current)
		patch.Apply(&next)
		w := playerWriteModelFrom(next)

		query, args, err = qb.Update("players").
			Set("team_id", w.TeamID).
			Set("fname", w.FirstName).
			Set("lname", w.LastName).
			Set("shirt_number", w.ShirtNumber).
			Set("position", w.Position).
			Set("is_starter", w.IsStarter).
			SetExpr("updated_at", "NOW()").
			Where(qb.Eq("id", id)).
			Suffix("RETURNING " + strings.Join(playerSelectColumns, ", ")).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update player query: %w", err)
		}

		var row playerTableModel
		if err := tx.GetContext(ctx, &row, query, args...); err != nil {
			return fmt.Errorf("update player id=%d: %w", id, err)
		}
		out = playerFromRow(row)
		found = true
		return nil
	})
	if err != nil {
		return player.Player{}, false, err
	}
	return out, found, nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query, args, err := qb.DeleteFrom("players").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete player query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete player id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete player rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *PlayerRepository) UpsertByExternalID(ctx context.Context, p player.Player) (player.Player, bool, error) {
	p.PlayerID = strings.TrimSpace(p.PlayerID)
	if p.PlayerID == "" {
		return player.Player{}, false, fmt.Errorf("upsert player: player id is required")
	}

	query, args, err := qb.InsertModel(
		"players",
		playerWriteModelFrom(p),
		playerUpsertSuffix+" RETURNING "+strings.Join(playerSelectColumns, ", ")+", (xmax = 0) AS created",
	)
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build upsert player query: %w", err)
	}

	var row playerUpsertRow
	err = withTx(ctx, r.db, "upsert player", func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &row, query, args...); err != nil {
			return fmt.Errorf("upsert player player_id=%s: %w", p.PlayerID, err)
		}
		return nil
	})
	if err != nil {
		return player.Player{}, false, err
	}
	return playerFromRow(row.playerTableModel), row.Created, nil
}

func (r *PlayerRepository) getOne(ctx context.Context, key string, cond qb.Condition) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(cond).
		Limit(1).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player by %s query: %w", key, err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by %s: %w", key, err)
	}
	return playerFromRow(row), true, nil
}
