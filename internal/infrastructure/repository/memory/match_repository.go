package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/domain/player"
)

type MatchRepository struct {
	store *Store
}

func NewMatchRepository(store *Store) *MatchRepository {
	return &MatchRepository{store: store}
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Match, 0, len(r.store.matches))
	for _, m := range r.store.matches {
		out = append(out, cloneMatch(m))
	}
	sortMatchesRecentFirst(out)
	return out, nil
}

func (r *MatchRepository) Count(_ context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return len(r.store.matches), nil
}

func (r *MatchRepository) GetByID(_ context.Context, id int64) (match.Match, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	m, ok := r.store.matches[id]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(m), true, nil
}

func (r *MatchRepository) GetByExternalID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.matchByExt[strings.TrimSpace(matchID)]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(r.store.matches[id]), true, nil
}

func (r *MatchRepository) ListByPlayer(_ context.Context, playerID int64) ([]match.Match, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Match, 0)
	for matchID, members := range r.store.roster {
		if _, ok := members[playerID]; ok {
			out = append(out, cloneMatch(r.store.matches[matchID]))
		}
	}
	sortMatchesRecentFirst(out)
	return out, nil
}

func (r *MatchRepository) ListMissingCompetition(_ context.Context) ([]match.Match, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]match.Match, 0)
	for _, m := range r.store.matches {
		if m.Competition == "" {
			out = append(out, cloneMatch(m))
		}
	}
	slices.SortFunc(out, func(a, b match.Match) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *MatchRepository) Create(_ context.Context, m match.Match) (match.Match, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	m.MatchID = strings.TrimSpace(m.MatchID)
	if _, exists := r.store.matchByExt[m.MatchID]; exists {
		return match.Match{}, fmt.Errorf("%w: %s", match.ErrDuplicateMatchID, m.MatchID)
	}
	return r.insertLocked(m), nil
}

func (r *MatchRepository) Update(_ context.Context, id int64, patch match.Patch) (match.Match, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.matches[id]
	if !ok {
		return match.Match{}, false, nil
	}
	next := cloneMatch(current)
	patch.Apply(&next)
	next.UpdatedAt = r.store.now()
	r.store.matches[id] = next
	return cloneMatch(next), true, nil
}

func (r *MatchRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.matches[id]; !ok {
		return false, nil
	}
	r.store.deleteMatchLocked(id)
	return true, nil
}

func (r *MatchRepository) UpsertByExternalID(_ context.Context, m match.Match) (match.Match, error) {
	m.MatchID = strings.TrimSpace(m.MatchID)
	if m.MatchID == "" {
		return match.Match{}, fmt.Errorf("upsert match: match id is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id, exists := r.store.matchByExt[m.MatchID]
	if !exists {
		return r.insertLocked(m), nil
	}

	stored := r.store.matches[id]
	next := stored
	next.HomeTeam = orString(m.HomeTeam, stored.HomeTeam)
	next.AwayTeam = orString(m.AwayTeam, stored.AwayTeam)
	next.HomeTeamID = orString(m.HomeTeamID, stored.HomeTeamID)
	next.AwayTeamID = orString(m.AwayTeamID, stored.AwayTeamID)
	next.HomeScore = cloneInt(m.HomeScore)
	next.AwayScore = cloneInt(m.AwayScore)
	if m.MatchDate != nil {
		t := *m.MatchDate
		next.MatchDate = &t
	}
	next.Competition = orString(m.Competition, stored.Competition)
	next.League = orString(m.League, stored.League)
	next.Status = m.Status
	if next.Status == "" {
		next.Status = match.DeriveStatus(next.HomeScore, next.AwayScore)
	}
	next.Venue = orString(m.Venue, stored.Venue)
	next.PxltGameID = orString(m.PxltGameID, stored.PxltGameID)
	next.SeasonName = orString(m.SeasonName, stored.SeasonName)
	next.VideoURL = orString(m.VideoURL, stored.VideoURL)
	if len(m.HomeFormation) > 0 {
		next.HomeFormation = cloneJSON(m.HomeFormation)
	}
	if len(m.AwayFormation) > 0 {
		next.AwayFormation = cloneJSON(m.AwayFormation)
	}
	if len(m.MatchEvents) > 0 {
		next.MatchEvents = cloneJSON(m.MatchEvents)
	}
	if len(m.Statistics) > 0 {
		next.Statistics = cloneJSON(m.Statistics)
	}
	next.UpdatedAt = r.store.now()
	r.store.matches[id] = next
	return cloneMatch(next), nil
}

func (r *MatchRepository) AttachPlayer(_ context.Context, matchID, playerID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.matches[matchID]; !ok {
		return fmt.Errorf("attach player=%d: match=%d does not exist", playerID, matchID)
	}
	if _, ok := r.store.players[playerID]; !ok {
		return fmt.Errorf("attach player=%d to match=%d: player does not exist", playerID, matchID)
	}
	members, ok := r.store.roster[matchID]
	if !ok {
		members = make(map[int64]struct{})
		r.store.roster[matchID] = members
	}
	members[playerID] = struct{}{}
	return nil
}

func (r *MatchRepository) ListPlayers(_ context.Context, matchID int64) ([]player.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	members := r.store.roster[matchID]
	out := make([]player.Player, 0, len(members))
	for playerID := range members {
		out = append(out, clonePlayer(r.store.players[playerID]))
	}
	slices.SortFunc(out, compareRosterOrder)
	return out, nil
}

func (r *MatchRepository) ListEvents(_ context.Context, matchID int64) ([]match.Event, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return sortedEvents(r.store.events[matchID], func(match.Event) bool { return true }), nil
}

func (r *MatchRepository) ListEventsByPlayer(_ context.Context, matchID, playerID int64) ([]match.Event, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return sortedEvents(r.store.events[matchID], func(e match.Event) bool { return e.PlayerID == playerID }), nil
}

func (r *MatchRepository) ReplacePlayerEvents(_ context.Context, matchID, playerID int64, events []match.Event) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.matches[matchID]; !ok {
		return fmt.Errorf("replace events: match=%d does not exist", matchID)
	}

	kept := make([]match.Event, 0, len(r.store.events[matchID])+len(events))
	for _, e := range r.store.events[matchID] {
		if e.PlayerID != playerID {
			kept = append(kept, e)
		}
	}
	now := r.store.now()
	for _, e := range events {
		r.store.lastEventID++
		kept = append(kept, match.Event{
			ID:        r.store.lastEventID,
			MatchID:   matchID,
			PlayerID:  playerID,
			Type:      e.Type,
			Minute:    max(0, e.Minute),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	r.store.events[matchID] = kept
	return nil
}

func (r *MatchRepository) insertLocked(m match.Match) match.Match {
	now := r.store.now()
	r.store.lastMatchID++
	m = cloneMatch(m)
	m.ID = r.store.lastMatchID
	if m.Status == "" {
		m.Status = match.DeriveStatus(m.HomeScore, m.AwayScore)
	}
	m.CreatedAt = now
	m.UpdatedAt = now
	r.store.matches[m.ID] = m
	r.store.matchByExt[m.MatchID] = m.ID
	return cloneMatch(m)
}

// sortMatchesRecentFirst orders by kickoff descending with unknown kickoffs
// last, then by id descending.
func sortMatchesRecentFirst(items []match.Match) {
	slices.SortFunc(items, func(a, b match.Match) int {
		switch {
		case a.MatchDate == nil && b.MatchDate == nil:
		case a.MatchDate == nil:
			return 1
		case b.MatchDate == nil:
			return -1
		default:
			if c := b.MatchDate.Compare(*a.MatchDate); c != 0 {
				return c
			}
		}
		return cmp.Compare(b.ID, a.ID)
	})
}

func compareRosterOrder(a, b player.Player) int {
	if a.IsStarter != b.IsStarter {
		if a.IsStarter {
			return -1
		}
		return 1
	}
	switch {
	case a.ShirtNumber == nil && b.ShirtNumber != nil:
		return 1
	case a.ShirtNumber != nil && b.ShirtNumber == nil:
		return -1
	case a.ShirtNumber != nil && b.ShirtNumber != nil && *a.ShirtNumber != *b.ShirtNumber:
		return cmp.Compare(*a.ShirtNumber, *b.ShirtNumber)
	}
	return cmp.Compare(a.ID, b.ID)
}

func sortedEvents(items []match.Event, keep func(match.Event) bool) []match.Event {
	out := make([]match.Event, 0, len(items))
	for _, e := range items {
		if keep(e) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b match.Event) int {
		if c := cmp.Compare(a.Minute, b.Minute); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
