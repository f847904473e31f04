package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/domain/player"
	qb "github.com/riskibarqy/match-center/internal/platform/querybuilder"
)

const matchIDConstraint = "uq_matches_match_id"

// Upstream refreshes keep stored descriptive values when the provider sends
// blanks; scores and status follow the provider.
const matchUpsertSuffix = `ON CONFLICT (match_id) DO UPDATE SET
	home_team = COALESCE(NULLIF(EXCLUDED.home_team, ''), matches.home_team),
	away_team = COALESCE(NULLIF(EXCLUDED.away_team, ''), matches.away_team),
	home_team_id = COALESCE(NULLIF(EXCLUDED.home_team_id, ''), matches.home_team_id),
	away_team_id = COALESCE(NULLIF(EXCLUDED.away_team_id, ''), matches.away_team_id),
	home_score = EXCLUDED.home_score,
	away_score = EXCLUDED.away_score,
	match_date = COALESCE(EXCLUDED.match_date, matches.match_date),
	competition = COALESCE(NULLIF(EXCLUDED.competition, ''), matches.competition),
	league = COALESCE(NULLIF(EXCLUDED.league, ''), matches.league),
	status = EXCLUDED.status,
	venue = COALESCE(NULLIF(EXCLUDED.venue, ''), matches.venue),
	pxlt_game_id = COALESCE(NULLIF(EXCLUDED.pxlt_game_id, ''), matches.pxlt_game_id),
	season_name = COALESCE(NULLIF(EXCLUDED.season_name, ''), matches.season_name),
	video_url = COALESCE(NULLIF(EXCLUDED.video_url, ''), matches.video_url),
	home_formation = COALESCE(EXCLUDED.home_formation, matches.home_formation),
	away_formation = COALESCE(EXCLUDED.away_formation, matches.away_formation),
	match_events = COALESCE(EXCLUDED.match_events, matches.match_events),
	statistics = COALESCE(EXCLUDED.statistics, matches.statistics),
	updated_at = NOW()`

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select(matchSelectColumns...).From("matches").
		OrderBy("match_date DESC NULLS LAST", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}

	return r.selectMatches(ctx, "select matches", query, args)
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("matches").ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count matches query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return total, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (match.Match, bool, error) {
	return r.getOne(ctx, "id", qb.Eq("id", id))
}

func (r *MatchRepository) GetByExternalID(ctx context.Context, matchID string) (match.Match, bool, error) {
	return r.getOne(ctx, "match_id", qb.Eq("match_id", strings.TrimSpace(matchID)))
}

func (r *MatchRepository) ListByPlayer(ctx context.Context, playerID int64) ([]match.Match, error) {
	query, args, err := qb.Select(prefixColumns("m", matchSelectColumns)...).
		From("matches m JOIN match_players mp ON mp.match_id = m.id").
		Where(qb.Eq("mp.player_id", playerID)).
		OrderBy("m.match_date DESC NULLS LAST", "m.id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by player query: %w", err)
	}

	return r.selectMatches(ctx, "select matches by player", query, args)
}

func (r *MatchRepository) ListMissingCompetition(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select(matchSelectColumns...).From("matches").
		Where(qb.EqLiteral("competition", "")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches missing competition query: %w", err)
	}

	return r.selectMatches(ctx, "select matches missing competition", query, args)
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) (match.Match, error) {
	query, args, err := qb.InsertModel("matches", matchWriteModelFrom(m), "RETURNING "+strings.Join(matchSelectColumns, ", "))
	if err != nil {
		return match.Match{}, fmt.Errorf("build insert match query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isUniqueViolation(err, matchIDConstraint) {
			return match.Match{}, fmt.Errorf("%w: %s", match.ErrDuplicateMatchID, m.MatchID)
		}
		return match.Match{}, fmt.Errorf("insert match: %w", err)
	}
	return matchFromRow(row), nil
}

func (r *MatchRepository) Update(ctx context.Context, id int64, patch match.Patch) (match.Match, bool, error) {
	var (
		out   match.Match
		found bool
	)
	err := withTx(ctx, r.db, "update match", func(tx *sqlx.Tx) error {
		query, args, err := qb.Select(matchSelectColumns...).From("matches").
			Where(qb.Eq("id", id)).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build lock match query: %w", err)
		}

		var current matchTableModel
		if err := tx.GetContext(ctx, &current, query+" FOR UPDATE", args...); err != nil {
			if isNotFound(err) {
				return nil
			}
			return fmt.Errorf("lock match id=%d: %w", id, err)
		}

		next := matchFromRow(current)
		patch.Apply(&next)
		w := matchWriteModelFrom(next)

		query, args, err = qb.Update("matches").
			Set("home_team", w.HomeTeam).
			Set("away_team", w.AwayTeam).
			Set("home_team_id", w.HomeTeamID).
			Set("away_team_id", w.AwayTeamID).
			Set("home_score", w.HomeScore).
			Set("away_score", w.AwayScore).
			Set("match_date", w.MatchDate).
			Set("competition", w.Competition).
			Set("league", w.League).
			Set("status", w.Status).
			Set("venue", w.Venue).
			Set("pxlt_game_id", w.PxltGameID).
			Set("season_name", w.SeasonName).
			Set("video_url", w.VideoURL).
			Set("home_formation", w.HomeFormation).
			Set("away_formation", w.AwayFormation).
			Set("match_events", w.MatchEvents).
			Set("statistics", w.Statistics).
			SetExpr("updated_at", "NOW()").
			Where(qb.Eq("id", id)).
			Suffix("RETURNING " + strings.Join(matchSelectColumns, ", ")).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update match query: %w", err)
		}

		var row matchTableModel
		if err := tx.GetContext(ctx, &row, query, args...); err != nil {
			return fmt.Errorf("update match id=%d: %w", id, err)
		}
		out = matchFromRow(row)
		found = true
		return nil
	})
	if err != nil {
		return match.Match{}, false, err
	}
	return out, found, nil
}

func (r *MatchRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query, args, err := qb.DeleteFrom("matches").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete match query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete match id=%d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete match rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *MatchRepository) UpsertByExternalID(ctx context.Context, m match.Match) (match.Match, error) {
	m.MatchID = strings.TrimSpace(m.MatchID)
	if m.MatchID == "" {
		return match.Match{}, fmt.Errorf("upsert match: match id is required")
	}

	query, args, err := qb.InsertModel(
		"matches",
		matchWriteModelFrom(m),
		matchUpsertSuffix+" RETURNING "+strings.Join(matchSelectColumns, ", "),
	)
	if err != nil {
		return match.Match{}, fmt.Errorf("build upsert match query: %w", err)
	}

	var row matchTableModel
	err = withTx(ctx, r.db, "upsert match", func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &row, query, args...); err != nil {
			return fmt.Errorf("upsert match match_id=%s: %w", m.MatchID, err)
		}
		return nil
	})
	if err != nil {
		return match.Match{}, err
	}
	return matchFromRow(row), nil
}

func (r *MatchRepository) AttachPlayer(ctx context.Context, matchID, playerID int64) error {
	query, args, err := qb.InsertInto("match_players").
		Columns("match_id", "player_id").
		Values(matchID, playerID).
		Suffix("ON CONFLICT (match_id, player_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build attach player query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("attach player=%d to match=%d: %w", playerID, matchID, err)
	}
	return nil
}

func (r *MatchRepository) ListPlayers(ctx context.Context, matchID int64) ([]player.Player, error) {
	query, args, err := qb.Select(prefixColumns("p", playerSelectColumns)...).
		From("players p JOIN match_players mp ON mp.player_id = p.id").
		Where(qb.Eq("mp.match_id", matchID)).
		OrderBy("p.is_starter DESC", "p.shirt_number NULLS LAST", "p.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select match players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select match players match=%d: %w", matchID, err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) ListEvents(ctx context.Context, matchID int64) ([]match.Event, error) {
	return r.selectEvents(ctx, "select match events", qb.Eq("match_id", matchID))
}

func (r *MatchRepository) ListEventsByPlayer(ctx context.Context, matchID, playerID int64) ([]match.Event, error) {
	return r.selectEvents(ctx, "select player match events",
		qb.Eq("match_id", matchID),
		qb.Eq("player_id", playerID),
	)
}

// ReplacePlayerEvents swaps one player's timeline for a match atomically.
func (r *MatchRepository) ReplacePlayerEvents(ctx context.Context, matchID, playerID int64, events []match.Event) error {
	return withTx(ctx, r.db, "replace player events", func(tx *sqlx.Tx) error {
		query, args, err := qb.DeleteFrom("match_events").
			Where(
				qb.Eq("match_id", matchID),
				qb.Eq("player_id", playerID),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build delete player events query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete player events match=%d player=%d: %w", matchID, playerID, err)
		}

		if len(events) == 0 {
			return nil
		}

		insert := qb.InsertInto("match_events").Columns("match_id", "player_id", "event_type", "minute")
		for _, e := range events {
			row := matchEventInsertModel{
				MatchID:   matchID,
				PlayerID:  playerID,
				EventType: string(e.Type),
				Minute:    max(0, e.Minute),
			}
			insert = insert.Values(row.MatchID, row.PlayerID, row.EventType, row.Minute)
		}
		query, args, err = insert.ToSQL()
		if err != nil {
			return fmt.Errorf("build insert player events query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert player events match=%d player=%d: %w", matchID, playerID, err)
		}
		return nil
	})
}

func (r *MatchRepository) getOne(ctx context.Context, key string, cond qb.Condition) (match.Match, bool, error) {
	query, args, err := qb.Select(matchSelectColumns...).From("matches").
		Where(cond).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by %s query: %w", key, err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by %s: %w", key, err)
	}
	return matchFromRow(row), true, nil
}

func (r *MatchRepository) selectMatches(ctx context.Context, op, query string, args []any) ([]match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r *MatchRepository) selectEvents(ctx context.Context, op string, conds ...qb.Condition) ([]match.Event, error) {
	query, args, err := qb.Select(matchEventSelectColumns...).From("match_events").
		Where(conds...).
		OrderBy("minute", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []matchEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]match.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchEventFromRow(row))
	}
	return out, nil
}
