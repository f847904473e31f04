package httpapi

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/domain/player"
	"github.com/riskibarqy/match-center/internal/domain/playerstats"
	"github.com/riskibarqy/match-center/internal/usecase"
)

type createMatchRequest struct {
	MatchID       string          `json:"match_id" validate:"required,max=64"`
	HomeTeam      string          `json:"home_team" validate:"required,max=255"`
	AwayTeam      string          `json:"away_team" validate:"required,max=255"`
	HomeTeamID    string          `json:"home_team_id" validate:"omitempty,max=64"`
	AwayTeamID    string          `json:"away_team_id" validate:"omitempty,max=64"`
	HomeScore     *int            `json:"home_score" validate:"omitempty,min=0"`
	AwayScore     *int            `json:"away_score" validate:"omitempty,min=0"`
	MatchDate     string          `json:"match_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Competition   string          `json:"competition" validate:"omitempty,max=255"`
	League        string          `json:"league" validate:"omitempty,max=255"`
	Status        string          `json:"status" validate:"omitempty,max=32"`
	Venue         string          `json:"venue" validate:"omitempty,max=255"`
	PxltGameID    string          `json:"pxlt_game_id" validate:"omitempty,max=64"`
	SeasonName    string          `json:"season_name" validate:"omitempty,max=255"`
	VideoURL      string          `json:"video_url" validate:"omitempty,url"`
	HomeFormation json.RawMessage `json:"home_formation"`
	AwayFormation json.RawMessage `json:"away_formation"`
	MatchEvents   json.RawMessage `json:"match_events"`
	Statistics    json.RawMessage `json:"statistics"`
}

type updateMatchRequest struct {
	HomeTeam      *string         `json:"home_team" validate:"omitempty,max=255"`
	AwayTeam      *string         `json:"away_team" validate:"omitempty,max=255"`
	HomeTeamID    *string         `json:"home_team_id" validate:"omitempty,max=64"`
	AwayTeamID    *string         `json:"away_team_id" validate:"omitempty,max=64"`
	HomeScore     *int            `json:"home_score" validate:"omitempty,min=0"`
	AwayScore     *int            `json:"away_score" validate:"omitempty,min=0"`
	MatchDate     *string         `json:"match_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Competition   *string         `json:"competition" validate:"omitempty,max=255"`
	League        *string         `json:"league" validate:"omitempty,max=255"`
	Status        *string         `json:"status" validate:"omitempty,max=32"`
	Venue         *string         `json:"venue" validate:"omitempty,max=255"`
	PxltGameID    *string         `json:"pxlt_game_id" validate:"omitempty,max=64"`
	SeasonName    *string         `json:"season_name" validate:"omitempty,max=255"`
	VideoURL      *string         `json:"video_url" validate:"omitempty,max=2048"`
	HomeFormation json.RawMessage `json:"home_formation"`
	AwayFormation json.RawMessage `json:"away_formation"`
	MatchEvents   json.RawMessage `json:"match_events"`
	Statistics    json.RawMessage `json:"statistics"`
}

type enrichRequest struct {
	MatchIDs []string `json:"match_ids" validate:"omitempty,max=500,dive,required"`
}

type createPlayerRequest struct {
	PlayerID    string `json:"player_id" validate:"required,max=64"`
	TeamID      string `json:"team_id" validate:"required,max=64"`
	FirstName   string `json:"fname" validate:"omitempty,max=255"`
	LastName    string `json:"lname" validate:"omitempty,max=255"`
	ShirtNumber *int   `json:"shirt_number" validate:"omitempty,min=0,max=999"`
	Position    string `json:"position" validate:"omitempty,max=32"`
	IsStarter   *bool  `json:"is_starter"`
}

type updatePlayerRequest struct {
	TeamID      *string `json:"team_id" validate:"omitempty,max=64"`
	FirstName   *string `json:"fname" validate:"omitempty,max=255"`
	LastName    *string `json:"lname" validate:"omitempty,max=255"`
	ShirtNumber *int    `json:"shirt_number" validate:"omitempty,min=0,max=999"`
	Position    *string `json:"position" validate:"omitempty,max=32"`
	IsStarter   *bool   `json:"is_starter"`
}

func (req createMatchRequest) toDomain() (match.Match, error) {
	kickoff, err := parseMatchDate("match_date", req.MatchDate)
	if err != nil {
		return match.Match{}, err
	}
	blobs, err := jsonBlobs(map[string]json.RawMessage{
		"home_formation": req.HomeFormation,
		"away_formation": req.AwayFormation,
		"match_events":   req.MatchEvents,
		"statistics":     req.Statistics,
	})
	if err != nil {
		return match.Match{}, err
	}

	return match.Match{
		MatchID:       strings.TrimSpace(req.MatchID),
		HomeTeam:      strings.TrimSpace(req.HomeTeam),
		AwayTeam:      strings.TrimSpace(req.AwayTeam),
		HomeTeamID:    strings.TrimSpace(req.HomeTeamID),
		AwayTeamID:    strings.TrimSpace(req.AwayTeamID),
		HomeScore:     req.HomeScore,
		AwayScore:     req.AwayScore,
		MatchDate:     kickoff,
		Competition:   strings.TrimSpace(req.Competition),
		League:        strings.TrimSpace(req.League),
		Status:        strings.TrimSpace(req.Status),
		Venue:         strings.TrimSpace(req.Venue),
		PxltGameID:    strings.TrimSpace(req.PxltGameID),
		SeasonName:    strings.TrimSpace(req.SeasonName),
		VideoURL:      strings.TrimSpace(req.VideoURL),
		HomeFormation: blobs["home_formation"],
		AwayFormation: blobs["away_formation"],
		MatchEvents:   blobs["match_events"],
		Statistics:    blobs["statistics"],
	}, nil
}

func (req updateMatchRequest) toPatch() (match.Patch, error) {
	patch := match.Patch{
		HomeTeam:    req.HomeTeam,
		AwayTeam:    req.AwayTeam,
		HomeTeamID:  req.HomeTeamID,
		AwayTeamID:  req.AwayTeamID,
		HomeScore:   req.HomeScore,
		AwayScore:   req.AwayScore,
		Competition: req.Competition,
		League:      req.League,
		Status:      req.Status,
		Venue:       req.Venue,
		PxltGameID:  req.PxltGameID,
		SeasonName:  req.SeasonName,
		VideoURL:    req.VideoURL,
	}
	if req.MatchDate != nil {
		kickoff, err := parseMatchDate("match_date", *req.MatchDate)
		if err != nil {
			return match.Patch{}, err
		}
		patch.MatchDate = kickoff
	}

	blobs, err := jsonBlobs(map[string]json.RawMessage{
		"home_formation": req.HomeFormation,
		"away_formation": req.AwayFormation,
		"match_events":   req.MatchEvents,
		"statistics":     req.Statistics,
	})
	if err != nil {
		return match.Patch{}, err
	}
	patch.HomeFormation = blobs["home_formation"]
	patch.AwayFormation = blobs["away_formation"]
	patch.MatchEvents = blobs["match_events"]
	patch.Statistics = blobs["statistics"]
	return patch, nil
}

func (req createPlayerRequest) toDomain() player.Player {
	starter := true
	if req.IsStarter != nil {
		starter = *req.IsStarter
	}
	return player.Player{
		PlayerID:    strings.TrimSpace(req.PlayerID),
		TeamID:      strings.TrimSpace(req.TeamID),
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		ShirtNumber: req.ShirtNumber,
		Position:    strings.ToUpper(strings.TrimSpace(req.Position)),
		IsStarter:   starter,
	}
}

func (req updatePlayerRequest) toPatch() player.Patch {
	patch := player.Patch{
		TeamID:      req.TeamID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		ShirtNumber: req.ShirtNumber,
		IsStarter:   req.IsStarter,
	}
	if req.Position != nil {
		v := strings.ToUpper(strings.TrimSpace(*req.Position))
		patch.Position = &v
	}
	return patch
}

// parseMatchDate returns nil for an empty value.
func parseMatchDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, invalidField(field, "must be an RFC3339 timestamp")
	}
	t = t.UTC()
	return &t, nil
}

// jsonBlobs accepts objects, arrays or an explicit null per field. Absent
// fields stay nil; null is kept so an update can clear the column.
func jsonBlobs(fields map[string]json.RawMessage) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(fields))
	for name, raw := range fields {
		if raw == nil {
			continue
		}
		trimmed := bytes.TrimSpace(raw)
		switch {
		case bytes.Equal(trimmed, []byte("null")):
			out[name] = json.RawMessage("null")
		case len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') && json.Valid(trimmed):
			out[name] = append(json.RawMessage(nil), trimmed...)
		default:
			return nil, invalidField(name, "must be a JSON object or array")
		}
	}
	return out, nil
}

type matchDTO struct {
	ID            int64   `json:"id"`
	MatchID       string  `json:"match_id"`
	HomeTeam      string  `json:"home_team"`
	AwayTeam      string  `json:"away_team"`
	HomeTeamID    string  `json:"home_team_id"`
	AwayTeamID    string  `json:"away_team_id"`
	HomeScore     *int    `json:"home_score"`
	AwayScore     *int    `json:"away_score"`
	MatchDate     *string `json:"match_date"`
	Competition   string  `json:"competition"`
	League        string  `json:"league"`
	Status        string  `json:"status"`
	Venue         string  `json:"venue"`
	PxltGameID    string  `json:"pxlt_game_id"`
	SeasonName    string  `json:"season_name"`
	VideoURL      string  `json:"video_url"`
	HasVideo      bool    `json:"has_video"`
	HomeFormation any     `json:"home_formation"`
	AwayFormation any     `json:"away_formation"`
	MatchEvents   any     `json:"match_events"`
	Statistics    any     `json:"statistics"`
	CreatedAt     *string `json:"created_at,omitempty"`
	UpdatedAt     *string `json:"updated_at,omitempty"`
}

type eventDTO struct {
	ID       int64  `json:"id,omitempty"`
	MatchID  int64  `json:"match_id,omitempty"`
	PlayerID int64  `json:"player_id,omitempty"`
	Type     string `json:"event_type"`
	Minute   int    `json:"minute"`
}

type playerDTO struct {
	ID          int64   `json:"id,omitempty"`
	PlayerID    string  `json:"player_id"`
	TeamID      string  `json:"team_id"`
	FirstName   string  `json:"fname"`
	LastName    string  `json:"lname"`
	FullName    string  `json:"full_name"`
	ShirtNumber *int    `json:"shirt_number"`
	Position    string  `json:"position"`
	IsStarter   bool    `json:"is_starter"`
	CreatedAt   *string `json:"created_at,omitempty"`
	UpdatedAt   *string `json:"updated_at,omitempty"`
}

type rosterPlayerDTO struct {
	playerDTO
	Events        []eventDTO `json:"events"`
	MinutesPlayed *int       `json:"minutes_played"`
}

type matchDetailDTO struct {
	matchDTO
	Source  string            `json:"source"`
	Players []rosterPlayerDTO `json:"players"`
}

type playerMatchDTO struct {
	matchDTO
	Events        []eventDTO `json:"events"`
	MinutesPlayed *int       `json:"minutes_played"`
}

type statsDTO struct {
	PlayerID  int64 `json:"player_id"`
	Passing   *int  `json:"passing"`
	Dribbling *int  `json:"dribbling"`
	Speed     *int  `json:"speed"`
	Strength  *int  `json:"strength"`
	Vision    *int  `json:"vision"`
	Defending *int  `json:"defending"`
	Shooting  *int  `json:"shooting"`
	Potential *int  `json:"potential"`
}

type playerProfileDTO struct {
	playerDTO
	Stats statsDTO `json:"stats"`
}

type dayGroupDTO struct {
	Day     string     `json:"day"`
	Matches []matchDTO `json:"matches"`
}

type feedDTO struct {
	Page         int           `json:"page"`
	Size         int           `json:"size"`
	SizeOptions  []int         `json:"size_options"`
	TotalMatches int           `json:"total_matches"`
	TotalPages   int           `json:"total_pages"`
	Days         []dayGroupDTO `json:"days"`
}

type leagueDTO struct {
	Matches []usecase.ExternalMatch `json:"matches"`
	Total   int                     `json:"total"`
	Skipped int                     `json:"skipped"`
}

type countDTO struct {
	Count int `json:"count"`
}

type messageDTO struct {
	Message string `json:"message"`
}

type healthDTO struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Database      string `json:"database"`
}

type readinessDTO struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type livenessDTO struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:            m.ID,
		MatchID:       m.MatchID,
		HomeTeam:      m.HomeTeam,
		AwayTeam:      m.AwayTeam,
		HomeTeamID:    m.HomeTeamID,
		AwayTeamID:    m.AwayTeamID,
		HomeScore:     m.HomeScore,
		AwayScore:     m.AwayScore,
		MatchDate:     formatTimePtr(m.MatchDate),
		Competition:   m.Competition,
		League:        m.League,
		Status:        m.Status,
		Venue:         m.Venue,
		PxltGameID:    m.PxltGameID,
		SeasonName:    m.SeasonName,
		VideoURL:      m.VideoURL,
		HasVideo:      match.HasVideo(m),
		HomeFormation: rawOrNil(m.HomeFormation),
		AwayFormation: rawOrNil(m.AwayFormation),
		MatchEvents:   rawOrNil(m.MatchEvents),
		Statistics:    rawOrNil(m.Statistics),
		CreatedAt:     formatTime(m.CreatedAt),
		UpdatedAt:     formatTime(m.UpdatedAt),
	}
}

func matchesToDTO(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, m := range items {
		out = append(out, matchToDTO(m))
	}
	return out
}

func eventsToDTO(items []match.Event) []eventDTO {
	out := make([]eventDTO, 0, len(items))
	for _, e := range items {
		out = append(out, eventDTO{
			ID:       e.ID,
			MatchID:  e.MatchID,
			PlayerID: e.PlayerID,
			Type:     string(e.Type),
			Minute:   e.Minute,
		})
	}
	return out
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:          p.ID,
		PlayerID:    p.PlayerID,
		TeamID:      p.TeamID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		FullName:    p.FullName(),
		ShirtNumber: p.ShirtNumber,
		Position:    p.Position,
		IsStarter:   p.IsStarter,
		CreatedAt:   formatTime(p.CreatedAt),
		UpdatedAt:   formatTime(p.UpdatedAt),
	}
}

func matchDetailToDTO(detail usecase.MatchDetail) matchDetailDTO {
	players := make([]rosterPlayerDTO, 0, len(detail.Roster))
	for _, entry := range detail.Roster {
		players = append(players, rosterPlayerDTO{
			playerDTO:     playerToDTO(entry.Player),
			Events:        eventsToDTO(entry.Events),
			MinutesPlayed: entry.MinutesPlayed,
		})
	}
	return matchDetailDTO{
		matchDTO: matchToDTO(detail.Match),
		Source:   detail.Source,
		Players:  players,
	}
}

func playerMatchesToDTO(items []usecase.PlayerMatch) []playerMatchDTO {
	out := make([]playerMatchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerMatchDTO{
			matchDTO:      matchToDTO(item.Match),
			Events:        eventsToDTO(item.Events),
			MinutesPlayed: item.MinutesPlayed,
		})
	}
	return out
}

func statsToDTO(s playerstats.Stats) statsDTO {
	return statsDTO{
		PlayerID:  s.PlayerID,
		Passing:   s.Passing,
		Dribbling: s.Dribbling,
		Speed:     s.Speed,
		Strength:  s.Strength,
		Vision:    s.Vision,
		Defending: s.Defending,
		Shooting:  s.Shooting,
		Potential: s.Potential,
	}
}

func feedToDTO(feed match.DayFeed) feedDTO {
	days := make([]dayGroupDTO, 0, len(feed.Days))
	for _, d := range feed.Days {
		days = append(days, dayGroupDTO{Day: d.Day, Matches: matchesToDTO(d.Matches)})
	}
	return feedDTO{
		Page:         feed.Page,
		Size:         feed.Size,
		SizeOptions:  match.PageSizeOptions,
		TotalMatches: feed.TotalMatches,
		TotalPages:   feed.TotalPages,
		Days:         days,
	}
}

func leagueToDTO(list usecase.LeagueMatches) leagueDTO {
	items := list.Matches
	if items == nil {
		items = []usecase.ExternalMatch{}
	}
	return leagueDTO{Matches: items, Total: list.Total(), Skipped: list.Rejected}
}

func rawOrNil(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

func formatTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}
