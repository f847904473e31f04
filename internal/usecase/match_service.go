package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/domain/player"
	"github.com/riskibarqy/match-center/internal/platform/logging"
)

const (
	MatchSourceUpstream = "upstream"
	MatchSourceDatabase = "database"
)

// MatchDetail is one match with its roster. Source reports whether the
// upstream detail was merged in.
type MatchDetail struct {
	Match  match.Match
	Roster []RosterEntry
	Source string
}

type RosterEntry struct {
	Player        player.Player
	Events        []match.Event
	MinutesPlayed *int
}

// PlayerMatch is one appearance of a player with their events in that match.
type PlayerMatch struct {
	Match         match.Match
	Events        []match.Event
	MinutesPlayed *int
}

type FeedInput struct {
	Page      int
	Size      int
	VideoOnly bool
}

type MatchService struct {
	matchRepo  match.Repository
	playerRepo player.Repository
	provider   MatchProvider
	logger     *logging.Logger
}

func NewMatchService(
	matchRepo match.Repository,
	playerRepo player.Repository,
	provider MatchProvider,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		provider:   provider,
		logger:     logger,
	}
}

func (s *MatchService) List(ctx context.Context) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	items, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return items, nil
}

func (s *MatchService) Count(ctx context.Context) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Count")
	defer span.End()

	count, err := s.matchRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count matches: %w", err)
	}
	return count, nil
}

func (s *MatchService) Feed(ctx context.Context, input FeedInput) (match.DayFeed, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Feed")
	defer span.End()

	items, err := s.matchRepo.List(ctx)
	if err != nil {
		return match.DayFeed{}, fmt.Errorf("list matches for feed: %w", err)
	}
	return match.BuildDayFeed(items, input.Page, input.Size, input.VideoOnly), nil
}

// ListLeague returns the normalized upstream league list without persisting it.
func (s *MatchService) ListLeague(ctx context.Context, leagueID, seasonID string) (LeagueMatches, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListLeague")
	defer span.End()

	leagueID, seasonID, err := normalizeLeagueSeason(leagueID, seasonID)
	if err != nil {
		return LeagueMatches{}, err
	}
	if s.provider == nil {
		return LeagueMatches{}, fmt.Errorf("%w: match provider is not configured", ErrDependencyUnavailable)
	}

	out, err := s.provider.FetchLeagueMatches(ctx, leagueID, seasonID)
	if err != nil {
		return LeagueMatches{}, fmt.Errorf("fetch league matches league=%s season=%s: %w", leagueID, seasonID, err)
	}
	return out, nil
}

// Get resolves ref as an external match id or a primary key. The upstream
// detail is merged over the stored row when available; upstream failures
// fall back to the stored copy.
func (s *MatchService) Get(ctx context.Context, ref string) (MatchDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Get")
	defer span.End()

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return MatchDetail{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	stored, found, err := s.resolveMatch(ctx, ref)
	if err != nil {
		return MatchDetail{}, err
	}

	externalID := ref
	if found {
		externalID = stored.MatchID
	}

	detail, upstreamOK := s.fetchDetail(ctx, externalID)
	if err := ctx.Err(); err != nil {
		return MatchDetail{}, err
	}

	switch {
	case found:
		out := MatchDetail{Match: stored, Source: MatchSourceDatabase}
		if upstreamOK {
			out.Match = mergeExternalMatch(stored, detail)
			out.Source = MatchSourceUpstream
		}
		roster, err := s.storedRoster(ctx, stored.ID)
		if err != nil {
			return MatchDetail{}, err
		}
		if len(roster) == 0 && upstreamOK {
			roster = upstreamRoster(detail.Players)
		}
		out.Roster = roster
		return out, nil
	case upstreamOK:
		m := detail.Match.ToDomain()
		if m.MatchID == "" {
			m.MatchID = externalID
		}
		return MatchDetail{
			Match:  match.MergeDetail(m, detail.VideoURL, detail.PxltGameID),
			Roster: upstreamRoster(detail.Players),
			Source: MatchSourceUpstream,
		}, nil
	default:
		return MatchDetail{}, fmt.Errorf("%w: match=%s", ErrNotFound, ref)
	}
}

// ListByPlayer returns the player's matches with minutes played derived from
// their events in each match.
func (s *MatchService) ListByPlayer(ctx context.Context, playerRef string) ([]PlayerMatch, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByPlayer")
	defer span.End()

	p, err := resolvePlayer(ctx, s.playerRepo, playerRef)
	if err != nil {
		return nil, err
	}

	matches, err := s.matchRepo.ListByPlayer(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list matches by player=%s: %w", p.PlayerID, err)
	}

	out := make([]PlayerMatch, 0, len(matches))
	for _, m := range matches {
		events, err := s.matchRepo.ListEventsByPlayer(ctx, m.ID, p.ID)
		if err != nil {
			return nil, fmt.Errorf("list events match=%d player=%d: %w", m.ID, p.ID, err)
		}
		out = append(out, PlayerMatch{
			Match:         m,
			Events:        events,
			MinutesPlayed: minutesPtr(p.IsStarter, events),
		})
	}
	return out, nil
}

func (s *MatchService) Create(ctx context.Context, m match.Match) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Create")
	defer span.End()

	m.MatchID = strings.TrimSpace(m.MatchID)
	m.HomeTeam = strings.TrimSpace(m.HomeTeam)
	m.AwayTeam = strings.TrimSpace(m.AwayTeam)
	if m.MatchID == "" || m.HomeTeam == "" || m.AwayTeam == "" {
		return match.Match{}, fmt.Errorf("%w: match_id, home_team and away_team are required", ErrInvalidInput)
	}
	if m.Status == "" {
		m.Status = match.DeriveStatus(m.HomeScore, m.AwayScore)
	}

	_, exists, err := s.matchRepo.GetByExternalID(ctx, m.MatchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match by external id: %w", err)
	}
	if exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrConflict, m.MatchID)
	}

	created, err := s.matchRepo.Create(ctx, m)
	if err != nil {
		if errors.Is(err, match.ErrDuplicateMatchID) {
			return match.Match{}, fmt.Errorf("%w: match=%s", ErrConflict, m.MatchID)
		}
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}
	return created, nil
}

func (s *MatchService) Update(ctx context.Context, id int64, patch match.Patch) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Update")
	defer span.End()

	if id <= 0 {
		return match.Match{}, fmt.Errorf("%w: match id must be a positive integer", ErrInvalidInput)
	}
	if patch.HomeTeam != nil && strings.TrimSpace(*patch.HomeTeam) == "" {
		return match.Match{}, fmt.Errorf("%w: home_team cannot be empty", ErrInvalidInput)
	}
	if patch.AwayTeam != nil && strings.TrimSpace(*patch.AwayTeam) == "" {
		return match.Match{}, fmt.Errorf("%w: away_team cannot be empty", ErrInvalidInput)
	}

	updated, ok, err := s.matchRepo.Update(ctx, id, patch)
	if err != nil {
		return match.Match{}, fmt.Errorf("update match=%d: %w", id, err)
	}
	if !ok {
		return match.Match{}, fmt.Errorf("%w: match=%d", ErrNotFound, id)
	}
	return updated, nil
}

func (s *MatchService) Delete(ctx context.Context, id int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Delete")
	defer span.End()

	if id <= 0 {
		return fmt.Errorf("%w: match id must be a positive integer", ErrInvalidInput)
	}

	deleted, err := s.matchRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete match=%d: %w", id, err)
	}
	if !deleted {
		return fmt.Errorf("%w: match=%d", ErrNotFound, id)
	}
	return nil
}

func (s *MatchService) resolveMatch(ctx context.Context, ref string) (match.Match, bool, error) {
	m, found, err := s.matchRepo.GetByExternalID(ctx, ref)
	if err != nil {
		return match.Match{}, false, fmt.Errorf("get match by external id: %w", err)
	}
	if found {
		return m, true, nil
	}

	id, perr := strconv.ParseInt(ref, 10, 64)
	if perr != nil || id <= 0 {
		return match.Match{}, false, nil
	}
	m, found, err = s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}
	return m, found, nil
}

func (s *MatchService) fetchDetail(ctx context.Context, externalID string) (ExternalMatchDetail, bool) {
	if s.provider == nil {
		return ExternalMatchDetail{}, false
	}

	detail, err := s.provider.FetchMatchDetail(ctx, externalID)
	if err != nil {
		s.logger.WarnContext(ctx, "match detail upstream fetch failed, using stored copy",
			"match_id", externalID,
			"error", err,
		)
		return ExternalMatchDetail{}, false
	}
	return detail, true
}

func (s *MatchService) storedRoster(ctx context.Context, matchID int64) ([]RosterEntry, error) {
	players, err := s.matchRepo.ListPlayers(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match players match=%d: %w", matchID, err)
	}
	events, err := s.matchRepo.ListEvents(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list match events match=%d: %w", matchID, err)
	}

	byPlayer := make(map[int64][]match.Event, len(players))
	for _, e := range events {
		byPlayer[e.PlayerID] = append(byPlayer[e.PlayerID], e)
	}

	out := make([]RosterEntry, 0, len(players))
	for _, p := range players {
		playerEvents := byPlayer[p.ID]
		out = append(out, RosterEntry{
			Player:        p,
			Events:        playerEvents,
			MinutesPlayed: minutesPtr(p.IsStarter, playerEvents),
		})
	}
	return out, nil
}

func upstreamRoster(items []ExternalRosterPlayer) []RosterEntry {
	out := make([]RosterEntry, 0, len(items))
	for _, item := range items {
		events := make([]match.Event, 0, len(item.Events))
		for _, e := range item.Events {
			events = append(events, match.Event{Type: e.Type, Minute: e.Minute})
		}
		out = append(out, RosterEntry{
			Player:        item.ToDomain(),
			Events:        events,
			MinutesPlayed: minutesPtr(item.IsStarter, events),
		})
	}
	return out
}

// mergeExternalMatch overlays resolved upstream fields onto the stored row.
// Identity and timestamps always come from the stored row.
func mergeExternalMatch(stored match.Match, detail ExternalMatchDetail) match.Match {
	ext := detail.Match
	out := stored
	out.HomeTeam = firstNonEmpty(ext.HomeTeam, stored.HomeTeam)
	out.AwayTeam = firstNonEmpty(ext.AwayTeam, stored.AwayTeam)
	out.HomeTeamID = firstNonEmpty(ext.HomeTeamID, stored.HomeTeamID)
	out.AwayTeamID = firstNonEmpty(ext.AwayTeamID, stored.AwayTeamID)
	out.Competition = firstNonEmpty(ext.Competition, stored.Competition)
	out.League = firstNonEmpty(ext.League, stored.League)
	out.Status = firstNonEmpty(ext.Status, stored.Status)
	out.Venue = firstNonEmpty(ext.Venue, stored.Venue)
	out.SeasonName = firstNonEmpty(ext.SeasonName, stored.SeasonName)
	out.PxltGameID = firstNonEmpty(ext.PxltGameID, stored.PxltGameID)
	out.VideoURL = firstNonEmpty(ext.VideoURL, stored.VideoURL)
	if ext.HomeScore != nil && ext.AwayScore != nil {
		out.HomeScore, out.AwayScore = ext.HomeScore, ext.AwayScore
		if strings.TrimSpace(ext.Status) == "" {
			out.Status = match.DeriveStatus(out.HomeScore, out.AwayScore)
		}
	}
	if ext.Kickoff != nil {
		out.MatchDate = ext.Kickoff
	}
	if len(ext.HomeFormation) > 0 {
		out.HomeFormation = ext.HomeFormation
	}
	if len(ext.AwayFormation) > 0 {
		out.AwayFormation = ext.AwayFormation
	}
	if len(ext.Events) > 0 {
		out.MatchEvents = ext.Events
	}
	if len(ext.Statistics) > 0 {
		out.Statistics = ext.Statistics
	}
	return match.MergeDetail(out, detail.VideoURL, detail.PxltGameID)
}

func resolvePlayer(ctx context.Context, repo player.Repository, ref string) (player.Player, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	p, found, err := repo.GetByExternalID(ctx, ref)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by external id: %w", err)
	}
	if found {
		return p, nil
	}

	if id, perr := strconv.ParseInt(ref, 10, 64); perr == nil && id > 0 {
		p, found, err = repo.GetByID(ctx, id)
		if err != nil {
			return player.Player{}, fmt.Errorf("get player by id: %w", err)
		}
		if found {
			return p, nil
		}
	}
	return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, ref)
}

func normalizeLeagueSeason(leagueID, seasonID string) (string, string, error) {
	leagueID = strings.TrimSpace(leagueID)
	seasonID = strings.TrimSpace(seasonID)
	if leagueID == "" || seasonID == "" {
		return "", "", fmt.Errorf("%w: leagueId and seasonId are required", ErrInvalidInput)
	}
	return leagueID, seasonID, nil
}

func minutesPtr(starter bool, events []match.Event) *int {
	minutes, ok := match.MinutesPlayed(starter, events)
	if !ok {
		return nil
	}
	return &minutes
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
