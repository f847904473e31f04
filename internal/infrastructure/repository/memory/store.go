package memory

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/domain/player"
	"github.com/riskibarqy/match-center/internal/domain/playerstats"
)

// Store backs the in-memory repositories. Deletes cascade the way the
// postgres foreign keys do.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	lastMatchID  int64
	lastPlayerID int64
	lastEventID  int64

	matches     map[int64]match.Match
	matchByExt  map[string]int64
	players     map[int64]player.Player
	playerByExt map[string]int64
	stats       map[int64]playerstats.Stats
	roster      map[int64]map[int64]struct{}
	events      map[int64][]match.Event
}

func NewStore() *Store {
	return &Store{
		now:         func() time.Time { return time.Now().UTC() },
		matches:     make(map[int64]match.Match),
		matchByExt:  make(map[string]int64),
		players:     make(map[int64]player.Player),
		playerByExt: make(map[string]int64),
		stats:       make(map[int64]playerstats.Stats),
		roster:      make(map[int64]map[int64]struct{}),
		events:      make(map[int64][]match.Event),
	}
}

func (s *Store) deletePlayerLocked(id int64) {
	p := s.players[id]
	delete(s.players, id)
	delete(s.playerByExt, p.PlayerID)
	delete(s.stats, id)
	for matchID, members := range s.roster {
		delete(members, id)
		if len(members) == 0 {
			delete(s.roster, matchID)
		}
	}
	for matchID, items := range s.events {
		kept := items[:0]
		for _, e := range items {
			if e.PlayerID != id {
				kept = append(kept, e)
			}
		}
		s.events[matchID] = kept
	}
}

func (s *Store) deleteMatchLocked(id int64) {
	m := s.matches[id]
	delete(s.matches, id)
	delete(s.matchByExt, m.MatchID)
	delete(s.roster, id)
	delete(s.events, id)
}

func cloneMatch(m match.Match) match.Match {
	m.HomeScore = cloneInt(m.HomeScore)
	m.AwayScore = cloneInt(m.AwayScore)
	if m.MatchDate != nil {
		t := *m.MatchDate
		m.MatchDate = &t
	}
	m.HomeFormation = cloneJSON(m.HomeFormation)
	m.AwayFormation = cloneJSON(m.AwayFormation)
	m.MatchEvents = cloneJSON(m.MatchEvents)
	m.Statistics = cloneJSON(m.Statistics)
	return m
}

func clonePlayer(p player.Player) player.Player {
	p.ShirtNumber = cloneInt(p.ShirtNumber)
	return p
}

func cloneStats(st playerstats.Stats) playerstats.Stats {
	return playerstats.Stats{PlayerID: st.PlayerID, CreatedAt: st.CreatedAt, UpdatedAt: st.UpdatedAt}.Merge(st)
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func cloneJSON(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	return append(json.RawMessage(nil), raw...)
}

func orString(next, stored string) string {
	if next == "" {
		return stored
	}
	return next
}
