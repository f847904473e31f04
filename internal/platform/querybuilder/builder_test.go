package querybuilder

import (
	"reflect"
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "match_id", "home_team").
		From("matches").
		Where(Eq("competition", "Premier League"), EqLiteral("status", "scheduled")).
		OrderBy("match_date DESC NULLS LAST", "id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, match_id, home_team FROM matches WHERE competition = $1 AND status = 'scheduled' ORDER BY match_date DESC NULLS LAST, id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "Premier League" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("players").
		Columns("player_id", "first_name").
		Values("P-10", "Leo").
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO players (player_id, first_name) VALUES ($1, $2) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "P-10" || args[1] != "Leo" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("matches").
		Set("competition", "Cup").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", 9)).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE matches SET competition = $1, updated_at = NOW() WHERE id = $2 RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "Cup" || args[1] != 9 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("match_events").
		Where(Eq("match_id", 3), Eq("player_id", 4)).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM match_events WHERE match_id = $1 AND player_id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if !reflect.DeepEqual(args, []any{3, 4}) {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("match_events").ToSQL(); err == nil {
		t.Fatalf("expected delete without conditions to fail")
	}
}

type sampleRow struct {
	ID        int64     `db:"id"`
	PlayerID  string    `db:"player_id"`
	Ignored   string    `db:"-"`
	CreatedAt time.Time `db:"created_at,omitempty"`
	internal  string
}

func TestInsertModel(t *testing.T) {
	row := sampleRow{ID: 1, PlayerID: "P-1", Ignored: "x", internal: "y"}
	query, args, err := InsertModel("players", row, "ON CONFLICT (player_id) DO NOTHING")
	if err != nil {
		t.Fatalf("insert model: %v", err)
	}

	wantQuery := "INSERT INTO players (id, player_id, created_at) VALUES ($1, $2, $3) ON CONFLICT (player_id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := InsertModel("players", (*sampleRow)(nil), ""); err == nil {
		t.Fatalf("expected nil model to fail")
	}
}
