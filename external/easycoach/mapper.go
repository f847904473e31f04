package easycoach

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/domain/player"
	"github.com/riskibarqy/match-center/internal/usecase"
)

const statusOK = "ok"

// Aliases are tried in order; the first present non-null value wins.
// Dotted names walk nested objects.
var (
	externalIDAliases  = []string{"match_id", "game_id", "id"}
	homeTeamAliases    = []string{"home_team", "home_label", "team_a_name_en", "team_a_name"}
	awayTeamAliases    = []string{"away_team", "away_label", "team_b_name_en", "team_b_name"}
	homeTeamIDAliases  = []string{"home_team_id", "home_id", "team_a_id"}
	awayTeamIDAliases  = []string{"away_team_id", "away_id", "team_b_id"}
	homeScoreAliases   = []string{"home_score", "home_team_score"}
	awayScoreAliases   = []string{"away_score", "away_team_score"}
	resultAliases      = []string{"result", "result_en"}
	competitionAliases = []string{"competition", "league_name", "fixture_name_en", "fixture_name", "league", "season_name"}
	leagueAliases      = []string{"league", "league_name", "fixture_name"}
	statusAliases      = []string{"status", "match_status"}
	venueAliases       = []string{"venue", "stadium", "stadium_name_en", "stadium_name"}
	pxltGameIDAliases  = []string{"pxlt_game_id", "match_details.pxlt_game_id"}
	seasonNameAliases  = []string{"season_name"}
	videoURLAliases    = []string{"video_url", "video.normal_hls", "match_details.video.normal_hls"}
	homeFormAliases    = []string{"home_formation", "home_team_formation"}
	awayFormAliases    = []string{"away_formation", "away_team_formation"}
	eventsAliases      = []string{"match_events", "events"}
	statisticsAliases  = []string{"statistics", "stats"}
	matchDateAliases   = []string{"match_date"}
	kickoffAliases     = []string{"kickoff", "kickoff_time"}
	dateTimeAliases    = []string{"hour", "time"}
)

// ParseLeague decodes a league list response. The list may sit under
// "matches" or "data", or be a bare array.
func ParseLeague(raw []byte) (usecase.LeagueMatches, error) {
	var root any
	if err := sonic.Unmarshal(raw, &root); err != nil {
		return usecase.LeagueMatches{}, fmt.Errorf("decode league payload: %w", err)
	}

	var items []any
	switch typed := root.(type) {
	case []any:
		items = typed
	case map[string]any:
		if err := checkStatus(typed); err != nil {
			return usecase.LeagueMatches{}, err
		}
		if list, ok := typed["matches"].([]any); ok {
			items = list
		} else if list, ok := typed["data"].([]any); ok {
			items = list
		}
	default:
		return usecase.LeagueMatches{}, fmt.Errorf("unexpected league payload type %T", root)
	}

	out := usecase.LeagueMatches{Matches: make([]usecase.ExternalMatch, 0, len(items))}
	for _, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			out.Rejected++
			continue
		}
		normalized, ok := NormalizeMatch(record)
		if !ok {
			out.Rejected++
			continue
		}
		out.Matches = append(out.Matches, normalized)
	}
	return out, nil
}

// NormalizeMatch maps one raw upstream match object onto the normalized
// record. It reports false when no external id resolves.
func NormalizeMatch(record map[string]any) (usecase.ExternalMatch, bool) {
	out := normalizeMatch(record)
	return out, out.ExternalID != ""
}

func normalizeMatch(record map[string]any) usecase.ExternalMatch {
	homeScore, awayScore := resolveScores(record)
	kickoff := resolveKickoff(record)

	out := usecase.ExternalMatch{
		ExternalID:    firstString(record, externalIDAliases),
		HomeTeam:      firstString(record, homeTeamAliases),
		AwayTeam:      firstString(record, awayTeamAliases),
		HomeTeamID:    firstString(record, homeTeamIDAliases),
		AwayTeamID:    firstString(record, awayTeamIDAliases),
		HomeScore:     homeScore,
		AwayScore:     awayScore,
		Competition:   firstString(record, competitionAliases),
		League:        firstString(record, leagueAliases),
		Status:        strings.ToLower(firstString(record, statusAliases)),
		Venue:         firstString(record, venueAliases),
		PxltGameID:    firstString(record, pxltGameIDAliases),
		SeasonName:    firstString(record, seasonNameAliases),
		VideoURL:      firstString(record, videoURLAliases),
		HomeFormation: firstJSON(record, homeFormAliases),
		AwayFormation: firstJSON(record, awayFormAliases),
		Events:        firstJSON(record, eventsAliases),
		Statistics:    firstJSON(record, statisticsAliases),
	}
	if !kickoff.IsZero() {
		out.Kickoff = &kickoff
	}
	if out.Status == "" || out.Status == statusOK {
		out.Status = match.DeriveStatus(out.HomeScore, out.AwayScore)
	}
	return out
}

// resolveScores returns both scores or neither.
func resolveScores(record map[string]any) (*int, *int) {
	home, homeOK := firstInt(record, homeScoreAliases)
	away, awayOK := firstInt(record, awayScoreAliases)
	if homeOK && awayOK {
		return &home, &away
	}

	for _, alias := range resultAliases {
		if h, a, ok := splitResult(stringValue(lookup(record, alias))); ok {
			return &h, &a
		}
	}
	return nil, nil
}

func resolveKickoff(record map[string]any) time.Time {
	if v := firstString(record, matchDateAliases); v != "" {
		if parsed, ok := match.ParseKickoff(v); ok {
			return parsed
		}
	}
	if date := stringValue(lookup(record, "date")); date != "" {
		candidate := date
		if clock := firstString(record, dateTimeAliases); clock != "" && !strings.Contains(date, ":") {
			candidate = date + " " + clock
		}
		if parsed, ok := match.ParseKickoff(candidate); ok {
			return parsed
		}
		if parsed, ok := match.ParseKickoff(date); ok {
			return parsed
		}
	}
	if v := firstString(record, kickoffAliases); v != "" {
		if parsed, ok := match.ParseKickoff(v); ok {
			return parsed
		}
	}
	return time.Time{}
}

// ParseMatchDetail decodes a /match response: the match fields, the video
// details and the roster of both teams.
func ParseMatchDetail(raw []byte) (usecase.ExternalMatchDetail, error) {
	var root map[string]any
	if err := sonic.Unmarshal(raw, &root); err != nil {
		return usecase.ExternalMatchDetail{}, fmt.Errorf("decode match payload: %w", err)
	}
	if err := checkStatus(root); err != nil {
		return usecase.ExternalMatchDetail{}, err
	}

	record := root
	if details, ok := root["match_details"].(map[string]any); ok {
		record = overlayMissing(root, details)
	}

	m := normalizeMatch(record)
	out := usecase.ExternalMatchDetail{
		Match:      m,
		VideoURL:   m.VideoURL,
		PxltGameID: m.PxltGameID,
	}

	seen := make(map[string]struct{})
	appendPlayer := func(p usecase.ExternalRosterPlayer) {
		if p.ExternalID == "" {
			return
		}
		if _, dup := seen[p.ExternalID]; dup {
			return
		}
		seen[p.ExternalID] = struct{}{}
		out.Players = append(out.Players, p)
	}

	if teams, ok := lookup(record, "teams").([]any); ok {
		for _, item := range teams {
			team, ok := item.(map[string]any)
			if !ok {
				continue
			}
			teamID := stringValue(team["team_id"])
			for _, p := range objects(team["players"]) {
				appendPlayer(parseTeamPlayer(p, teamID))
			}
		}
	}
	for _, p := range objects(lookup(record, "home_team_players")) {
		appendPlayer(parseSidePlayer(p, m.HomeTeamID))
	}
	for _, p := range objects(lookup(record, "away_team_players")) {
		appendPlayer(parseSidePlayer(p, m.AwayTeamID))
	}
	return out, nil
}

// parseTeamPlayer reads the teams[].players[] shape.
func parseTeamPlayer(raw map[string]any, teamID string) usecase.ExternalRosterPlayer {
	first, last := player.SplitName(firstString(raw, []string{"player_name_en", "player_name", "name"}))
	position := player.PositionForward
	if stringValue(raw["goalkeeper"]) == "1" {
		position = player.PositionGoalkeeper
	}
	return usecase.ExternalRosterPlayer{
		ExternalID:  firstString(raw, []string{"player_id", "id"}),
		TeamID:      firstNonEmpty(stringValue(raw["team_id"]), teamID),
		FirstName:   first,
		LastName:    last,
		ShirtNumber: intPtr(firstInt(raw, []string{"shirt_number", "number"})),
		Position:    position,
		IsStarter:   stringValue(raw["main"]) == "1",
		Events:      parseEvents(raw["events"]),
	}
}

// parseSidePlayer reads the home_team_players/away_team_players shape.
func parseSidePlayer(raw map[string]any, teamID string) usecase.ExternalRosterPlayer {
	first := firstString(raw, []string{"fname", "first_name"})
	last := firstString(raw, []string{"lname", "last_name"})
	if first == "" && last == "" {
		first, last = player.SplitName(firstString(raw, []string{"player_name_en", "player_name", "name"}))
	}
	starter := true
	if v, ok := firstInt(raw, []string{"is_sub"}); ok && v == 1 {
		starter = false
	}
	return usecase.ExternalRosterPlayer{
		ExternalID:  firstString(raw, []string{"player_id", "id"}),
		TeamID:      firstNonEmpty(stringValue(raw["team_id"]), teamID),
		FirstName:   first,
		LastName:    last,
		ShirtNumber: intPtr(firstInt(raw, []string{"number", "shirt_number"})),
		Position:    strings.ToUpper(stringValue(raw["position"])),
		IsStarter:   starter,
		Events:      parseEvents(raw["events"]),
	}
}

var groupedEventTypes = []struct {
	key string
	typ match.EventType
}{
	{"goals", match.EventGoal},
	{"yellows", match.EventYellowCard},
	{"reds", match.EventRedCard},
	{"subs", match.EventSubstitution},
}

// parseEvents accepts {goals,yellows,reds,subs} groups or a flat list of
// labelled events. Unknown labels are dropped.
func parseEvents(raw any) []usecase.ExternalPlayerEvent {
	var out []usecase.ExternalPlayerEvent
	switch typed := raw.(type) {
	case map[string]any:
		for _, group := range groupedEventTypes {
			for _, e := range objects(typed[group.key]) {
				minute, _ := firstInt(e, []string{"start_minute", "minute"})
				out = append(out, usecase.ExternalPlayerEvent{Type: group.typ, Minute: max(0, minute)})
			}
		}
	case []any:
		for _, item := range typed {
			e, ok := item.(map[string]any)
			if !ok {
				continue
			}
			eventType, ok := match.ParseEventType(firstString(e, []string{"event_type", "event_label", "type"}))
			if !ok {
				continue
			}
			minute, _ := firstInt(e, []string{"start_minute", "minute"})
			out = append(out, usecase.ExternalPlayerEvent{Type: eventType, Minute: max(0, minute)})
		}
	}
	return out
}

func checkStatus(root map[string]any) error {
	status := strings.ToLower(stringValue(root["status"]))
	if status == "" || status == statusOK {
		return nil
	}
	// Detail payloads carry a match status in the same key.
	if _, isMatch := root["match_id"]; isMatch {
		return nil
	}
	if msg := firstString(root, []string{"message", "error"}); msg != "" {
		return fmt.Errorf("upstream status=%s message=%s", status, msg)
	}
	return fmt.Errorf("upstream status=%s", status)
}

// overlayMissing returns base extended with the keys of extra it lacks.
func overlayMissing(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range extra {
		out[k] = v
	}
	for k, v := range base {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

func firstJSON(record map[string]any, aliases []string) json.RawMessage {
	for _, alias := range aliases {
		if v := lookup(record, alias); v != nil {
			if encoded := opaqueJSON(v); encoded != nil {
				return encoded
			}
		}
	}
	return nil
}

func intPtr(v int, ok bool) *int {
	if !ok {
		return nil
	}
	return &v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
