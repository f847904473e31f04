package easycoach

import (
	"testing"
	"time"

	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/domain/player"
)

func TestNormalizeMatch_LegacyLeagueRecord(t *testing.T) {
	t.Parallel()

	record := map[string]any{
		"game_id":         float64(80412),
		"pxlt_game_id":    "px-1",
		"fixture_name_en": []any{"U15 National League"},
		"fixture_name":    "ליגה לאומית",
		"date":            "14/09/24",
		"hour":            "16:30",
		"team_a_id":       "311",
		"team_a_name_en":  "Maccabi Juniors",
		"team_b_id":       float64(412),
		"team_b_name_en":  "Hapoel Youth",
		"stadium_name_en": "Kiryat Eliezer",
		"result_en":       "3 - 2",
	}

	got, ok := NormalizeMatch(record)
	if !ok {
		t.Fatalf("expected record to normalize")
	}
	if got.ExternalID != "80412" {
		t.Fatalf("unexpected external id: got=%s want=80412", got.ExternalID)
	}
	if got.HomeTeam != "Maccabi Juniors" || got.AwayTeam != "Hapoel Youth" {
		t.Fatalf("unexpected teams: home=%q away=%q", got.HomeTeam, got.AwayTeam)
	}
	if got.HomeTeamID != "311" || got.AwayTeamID != "412" {
		t.Fatalf("unexpected team ids: home=%q away=%q", got.HomeTeamID, got.AwayTeamID)
	}
	if got.HomeScore == nil || got.AwayScore == nil || *got.HomeScore != 3 || *got.AwayScore != 2 {
		t.Fatalf("unexpected scores: home=%v away=%v", got.HomeScore, got.AwayScore)
	}
	if got.Status != match.StatusCompleted {
		t.Fatalf("unexpected status: got=%s want=%s", got.Status, match.StatusCompleted)
	}
	if got.Competition != "U15 National League" {
		t.Fatalf("unexpected competition: got=%q", got.Competition)
	}
	if got.League != "ליגה לאומית" {
		t.Fatalf("unexpected league: got=%q", got.League)
	}
	if got.Venue != "Kiryat Eliezer" {
		t.Fatalf("unexpected venue: got=%q", got.Venue)
	}
	want := time.Date(2024, 9, 14, 16, 30, 0, 0, time.UTC)
	if got.Kickoff == nil || !got.Kickoff.Equal(want) {
		t.Fatalf("unexpected kickoff: got=%v want=%v", got.Kickoff, want)
	}
}

func TestNormalizeMatch_ModernRecord(t *testing.T) {
	t.Parallel()

	record := map[string]any{
		"match_id":       "m-77",
		"home_team":      "North",
		"away_team":      "South",
		"home_score":     "1",
		"away_score":     float64(1),
		"match_date":     "2025-02-01T18:00:00Z",
		"status":         "Completed",
		"video":          map[string]any{"normal_hls": "https://cdn.example/m-77.m3u8"},
		"home_formation": "4-3-3",
		"statistics":     map[string]any{"possession": []any{float64(55), float64(45)}},
		"events":         `[{"event_label":"Goal"}]`,
	}

	got, ok := NormalizeMatch(record)
	if !ok {
		t.Fatalf("expected record to normalize")
	}
	if got.Status != "completed" {
		t.Fatalf("unexpected status: got=%s", got.Status)
	}
	if got.VideoURL != "https://cdn.example/m-77.m3u8" {
		t.Fatalf("unexpected video url: got=%q", got.VideoURL)
	}
	if string(got.HomeFormation) != `"4-3-3"` {
		t.Fatalf("unexpected home formation: got=%s", got.HomeFormation)
	}
	if string(got.Events) != `[{"event_label":"Goal"}]` {
		t.Fatalf("unexpected events: got=%s", got.Events)
	}
	if len(got.Statistics) == 0 {
		t.Fatalf("expected statistics blob")
	}
	if got.AwayFormation != nil {
		t.Fatalf("expected missing formation to stay nil, got=%s", got.AwayFormation)
	}
}

func TestNormalizeMatch_ScoresResolveAsPair(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		record map[string]any
		want   *[2]int
	}{
		{name: "no scores", record: map[string]any{"match_id": "1"}},
		{name: "invalid numeric string", record: map[string]any{"match_id": "1", "home_score": "n/a", "away_score": "2"}},
		{name: "only one side", record: map[string]any{"match_id": "1", "home_score": float64(2)}},
		{name: "result fallback", record: map[string]any{"match_id": "1", "home_score": "x", "result": "0-4"}, want: &[2]int{0, 4}},
		{name: "malformed result", record: map[string]any{"match_id": "1", "result": "postponed"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, _ := NormalizeMatch(tc.record)
			if tc.want == nil {
				if got.HomeScore != nil || got.AwayScore != nil {
					t.Fatalf("expected unknown scores, got home=%v away=%v", got.HomeScore, got.AwayScore)
				}
				if got.Status != match.StatusScheduled {
					t.Fatalf("unexpected status: got=%s want=%s", got.Status, match.StatusScheduled)
				}
				return
			}
			if got.HomeScore == nil || got.AwayScore == nil || *got.HomeScore != tc.want[0] || *got.AwayScore != tc.want[1] {
				t.Fatalf("unexpected scores: home=%v away=%v want=%v", got.HomeScore, got.AwayScore, *tc.want)
			}
		})
	}
}

func TestParseLeague_Envelopes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		body         string
		wantMatches  int
		wantRejected int
		wantErr      bool
	}{
		{name: "matches envelope", body: `{"status":"ok","matches":[{"game_id":"1"},{"game_id":"2"},{"team_a_name":"no id"}]}`, wantMatches: 2, wantRejected: 1},
		{name: "data envelope", body: `{"data":[{"match_id":5}]}`, wantMatches: 1},
		{name: "bare array", body: `[{"id":"9"}, 3]`, wantMatches: 1, wantRejected: 1},
		{name: "upstream error", body: `{"status":"error","message":"invalid token"}`, wantErr: true},
		{name: "not json", body: `<html>`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLeague([]byte(tc.body))
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parse league: %v", err)
			}
			if len(got.Matches) != tc.wantMatches || got.Rejected != tc.wantRejected {
				t.Fatalf("unexpected counts: matches=%d rejected=%d want=%d/%d", len(got.Matches), got.Rejected, tc.wantMatches, tc.wantRejected)
			}
			if got.Total() != tc.wantMatches+tc.wantRejected {
				t.Fatalf("unexpected total: got=%d", got.Total())
			}
		})
	}
}

func TestParseMatchDetail_TeamsShape(t *testing.T) {
	t.Parallel()

	body := `{
		"status": "ok",
		"pxlt_game_id": "px-55",
		"match_details": {
			"game_id": "55",
			"team_a_name_en": "Home FC",
			"team_b_name_en": "Away FC",
			"video": {"normal_hls": "https://cdn.example/55.m3u8"}
		},
		"teams": [
			{"team_id": "10", "players": [
				{"player_id": 501, "player_name_en": "Ori Ben David", "shirt_number": "1", "goalkeeper": "1", "main": "1",
				 "events": {"goals": [], "yellows": [{"start_minute": 33}], "subs": [{"start_minute": 75}]}},
				{"player_id": "502", "player_name_en": "Noam", "shirt_number": "x", "goalkeeper": "0", "main": "0",
				 "events": [{"event_label": "Goal", "start_minute": 88}, {"event_label": "Offside", "start_minute": 89}]}
			]}
		]
	}`

	got, err := ParseMatchDetail([]byte(body))
	if err != nil {
		t.Fatalf("parse match detail: %v", err)
	}
	if got.Match.ExternalID != "55" || got.Match.HomeTeam != "Home FC" {
		t.Fatalf("unexpected match: %+v", got.Match)
	}
	if got.VideoURL != "https://cdn.example/55.m3u8" || got.PxltGameID != "px-55" {
		t.Fatalf("unexpected video fields: video=%q pxlt=%q", got.VideoURL, got.PxltGameID)
	}
	if len(got.Players) != 2 {
		t.Fatalf("unexpected player count: got=%d want=2", len(got.Players))
	}

	keeper := got.Players[0]
	if keeper.ExternalID != "501" || keeper.TeamID != "10" || keeper.FirstName != "Ori Ben" || keeper.LastName != "David" {
		t.Fatalf("unexpected keeper: %+v", keeper)
	}
	if keeper.Position != player.PositionGoalkeeper || !keeper.IsStarter {
		t.Fatalf("unexpected keeper role: position=%s starter=%v", keeper.Position, keeper.IsStarter)
	}
	if keeper.ShirtNumber == nil || *keeper.ShirtNumber != 1 {
		t.Fatalf("unexpected shirt number: %v", keeper.ShirtNumber)
	}
	if len(keeper.Events) != 2 || keeper.Events[0].Type != match.EventYellowCard || keeper.Events[1].Type != match.EventSubstitution {
		t.Fatalf("unexpected keeper events: %+v", keeper.Events)
	}

	bench := got.Players[1]
	if bench.FirstName != "" || bench.LastName != "Noam" || bench.ShirtNumber != nil {
		t.Fatalf("unexpected bench player: %+v", bench)
	}
	if bench.Position != player.PositionForward || bench.IsStarter {
		t.Fatalf("unexpected bench role: position=%s starter=%v", bench.Position, bench.IsStarter)
	}
	if len(bench.Events) != 1 || bench.Events[0].Type != match.EventGoal || bench.Events[0].Minute != 88 {
		t.Fatalf("unexpected bench events: %+v", bench.Events)
	}
}

func TestParseMatchDetail_SidePlayersShape(t *testing.T) {
	t.Parallel()

	body := `{
		"match_id": 901,
		"home_team": "Lions",
		"away_team": "Tigers",
		"home_team_id": "h-1",
		"away_team_id": "a-1",
		"home_score": 2,
		"away_score": 2,
		"match_date": "2025-05-10T10:00:00Z",
		"home_team_players": [{"player_id": "h-p1", "fname": "Amit", "lname": "Levi", "number": 9, "position": "fw", "is_sub": 0,
			"events": {"reds": [{"start_minute": 61}]}}],
		"away_team_players": [{"player_id": "a-p1", "fname": "Yoav", "lname": "Cohen", "number": "4", "is_sub": 1}]
	}`

	got, err := ParseMatchDetail([]byte(body))
	if err != nil {
		t.Fatalf("parse match detail: %v", err)
	}
	if got.Match.ExternalID != "901" || got.Match.Status != match.StatusCompleted {
		t.Fatalf("unexpected match: %+v", got.Match)
	}
	if len(got.Players) != 2 {
		t.Fatalf("unexpected player count: got=%d want=2", len(got.Players))
	}
	if got.Players[0].TeamID != "h-1" || got.Players[0].Position != "FW" || !got.Players[0].IsStarter {
		t.Fatalf("unexpected home player: %+v", got.Players[0])
	}
	if len(got.Players[0].Events) != 1 || got.Players[0].Events[0].Type != match.EventRedCard {
		t.Fatalf("unexpected home player events: %+v", got.Players[0].Events)
	}
	if got.Players[1].TeamID != "a-1" || got.Players[1].IsStarter {
		t.Fatalf("unexpected away player: %+v", got.Players[1])
	}
	if got.Players[1].ShirtNumber == nil || *got.Players[1].ShirtNumber != 4 {
		t.Fatalf("unexpected away shirt number: %v", got.Players[1].ShirtNumber)
	}
}
