package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-center/internal/domain/playerstats"
	qb "github.com/riskibarqy/match-center/internal/platform/querybuilder"
)

type playerStatsTableModel struct {
	PlayerID  int64         `db:"player_id"`
	Passing   sql.NullInt64 `db:"passing"`
	Dribbling sql.NullInt64 `db:"dribbling"`
	Speed     sql.NullInt64 `db:"speed"`
	Strength  sql.NullInt64 `db:"strength"`
	Vision    sql.NullInt64 `db:"vision"`
	Defending sql.NullInt64 `db:"defending"`
	Shooting  sql.NullInt64 `db:"shooting"`
	Potential sql.NullInt64 `db:"potential"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

type playerStatsWriteModel struct {
	PlayerID  int64  `db:"player_id"`
	Passing   *int64 `db:"passing"`
	Dribbling *int64 `db:"dribbling"`
	Speed     *int64 `db:"speed"`
	Strength  *int64 `db:"strength"`
	Vision    *int64 `db:"vision"`
	Defending *int64 `db:"defending"`
	Shooting  *int64 `db:"shooting"`
	Potential *int64 `db:"potential"`
}

var playerStatsSelectColumns = append([]string{"player_id"}, append(playerstats.FieldNames(), "created_at", "updated_at")...)

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

func (r *PlayerStatsRepository) Get(ctx context.Context, playerID int64) (playerstats.Stats, bool, error) {
	return r.get(ctx, r.db, playerID)
}

// Upsert keeps stored ratings for every field the patch leaves unset.
func (r *PlayerStatsRepository) Upsert(ctx context.Context, playerID int64, patch playerstats.Stats) (playerstats.Stats, error) {
	patch.PlayerID = playerID
	query, args, err := qb.InsertModel(
		"player_stats",
		playerStatsWriteModelFrom(patch),
		playerStatsMergeSuffix()+" RETURNING "+strings.Join(playerStatsSelectColumns, ", "),
	)
	if err != nil {
		return playerstats.Stats{}, fmt.Errorf("build upsert player stats query: %w", err)
	}

	var row playerStatsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return playerstats.Stats{}, fmt.Errorf("upsert player stats player=%d: %w", playerID, err)
	}
	return playerStatsFromRow(row), nil
}

// Ensure reports created=false and the stored row when one already exists.
func (r *PlayerStatsRepository) Ensure(ctx context.Context, playerID int64, defaults playerstats.Stats) (playerstats.Stats, bool, error) {
	defaults = defaults.Clamp()
	defaults.PlayerID = playerID

	query, args, err := qb.InsertModel(
		"player_stats",
		playerStatsWriteModelFrom(defaults),
		"ON CONFLICT (player_id) DO NOTHING RETURNING "+strings.Join(playerStatsSelectColumns, ", "),
	)
	if err != nil {
		return playerstats.Stats{}, false, fmt.Errorf("build ensure player stats query: %w", err)
	}

	var (
		out     playerstats.Stats
		created bool
	)
	err = withTx(ctx, r.db, "ensure player stats", func(tx *sqlx.Tx) error {
		var row playerStatsTableModel
		err := tx.GetContext(ctx, &row, query, args...)
		switch {
		case err == nil:
			out, created = playerStatsFromRow(row), true
			return nil
		case !isNotFound(err):
			return fmt.Errorf("insert player stats player=%d: %w", playerID, err)
		}

		stored, found, err := r.get(ctx, tx, playerID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("player stats for player=%d vanished after conflict", playerID)
		}
		out = stored
		return nil
	})
	if err != nil {
		return playerstats.Stats{}, false, err
	}
	return out, created, nil
}

func (r *PlayerStatsRepository) get(ctx context.Context, q sqlx.QueryerContext, playerID int64) (playerstats.Stats, bool, error) {
	query, args, err := qb.Select(playerStatsSelectColumns...).From("player_stats").
		Where(qb.Eq("player_id", playerID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return playerstats.Stats{}, false, fmt.Errorf("build get player stats query: %w", err)
	}

	var row playerStatsTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return playerstats.Stats{}, false, nil
		}
		return playerstats.Stats{}, false, fmt.Errorf("get player stats player=%d: %w", playerID, err)
	}
	return playerStatsFromRow(row), true, nil
}

func playerStatsMergeSuffix() string {
	names := playerstats.FieldNames()
	sets := make([]string, 0, len(names)+1)
	for _, name := range names {
		sets = append(sets, fmt.Sprintf("%[1]s = COALESCE(EXCLUDED.%[1]s, player_stats.%[1]s)", name))
	}
	sets = append(sets, "updated_at = NOW()")
	return "ON CONFLICT (player_id) DO UPDATE SET " + strings.Join(sets, ", ")
}

func playerStatsFromRow(row playerStatsTableModel) playerstats.Stats {
	return playerstats.Stats{
		PlayerID:  row.PlayerID,
		Passing:   intFromNull(row.Passing),
		Dribbling: intFromNull(row.Dribbling),
		Speed:     intFromNull(row.Speed),
		Strength:  intFromNull(row.Strength),
		Vision:    intFromNull(row.Vision),
		Defending: intFromNull(row.Defending),
		Shooting:  intFromNull(row.Shooting),
		Potential: intFromNull(row.Potential),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func playerStatsWriteModelFrom(s playerstats.Stats) playerStatsWriteModel {
	return playerStatsWriteModel{
		PlayerID:  s.PlayerID,
		Passing:   nullableInt(s.Passing),
		Dribbling: nullableInt(s.Dribbling),
		Speed:     nullableInt(s.Speed),
		Strength:  nullableInt(s.Strength),
		Vision:    nullableInt(s.Vision),
		Defending: nullableInt(s.Defending),
		Shooting:  nullableInt(s.Shooting),
		Potential: nullableInt(s.Potential),
	}
}
