package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/riskibarqy/match-center/internal/domain/player"
)

type PlayerRepository struct {
	store *Store
}

func NewPlayerRepository(store *Store) *PlayerRepository {
	return &PlayerRepository{store: store}
}

func (r *PlayerRepository) List(_ context.Context, teamID string) ([]player.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	teamID = strings.TrimSpace(teamID)
	out := make([]player.Player, 0, len(r.store.players))
	for _, p := range r.store.players {
		if teamID != "" && p.TeamID != teamID {
			continue
		}
		out = append(out, clonePlayer(p))
	}
	slices.SortFunc(out, func(a, b player.Player) int {
		if c := strings.Compare(a.TeamID, b.TeamID); c != 0 {
			return c
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
	})
	return out, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, id int64) (player.Player, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.players[id]
	if !ok {
		return player.Player{}, false, nil
	}
	return clonePlayer(p), true, nil
}

func (r *PlayerRepository) GetByExternalID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.playerByExt[strings.TrimSpace(playerID)]
	if !ok {
		return player.Player{}, false, nil
	}
	return clonePlayer(r.store.players[id]), true, nil
}

func (r *PlayerRepository) Create(_ context.Context, p player.Player) (player.Player, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p.PlayerID = strings.TrimSpace(p.PlayerID)
	if _, exists := r.store.playerByExt[p.PlayerID]; exists {
		return player.Player{}, fmt.Errorf("%w: %s", player.ErrDuplicatePlayerID, p.PlayerID)
	}
	return r.insertLocked(p), nil
}

func (r *PlayerRepository) Update(_ context.Context, id int64, patch player.Patch) (player.Player, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.players[id]
	if !ok {
		return player.Player{}, false, nil
	}
	next := clonePlayer(current)
	patch.Apply(&next)
	next.UpdatedAt = r.store.now()
	r.store.players[id] = next
	return clonePlayer(next), true, nil
}

func (r *PlayerRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.players[id]; !ok {
		return false, nil
	}
	r.store.deletePlayerLocked(id)
	return true, nil
}

func (r *PlayerRepository) UpsertByExternalID(_ context.Context, p player.Player) (player.Player, bool, error) {
	p.PlayerID = strings.TrimSpace(p.PlayerID)
	if p.PlayerID == "" {
		return player.Player{}, false, fmt.Errorf("upsert player: player id is required")
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id, exists := r.store.playerByExt[p.PlayerID]
	if !exists {
		return r.insertLocked(p), true, nil
	}

	stored := r.store.players[id]
	next := stored
	next.TeamID = orString(p.TeamID, stored.TeamID)
	next.FirstName = orString(p.FirstName, stored.FirstName)
	next.LastName = orString(p.LastName, stored.LastName)
	if p.ShirtNumber != nil {
		next.ShirtNumber = cloneInt(p.ShirtNumber)
	}
	next.Position = orString(p.Position, stored.Position)
	next.IsStarter = p.IsStarter
	next.UpdatedAt = r.store.now()
	r.store.players[id] = next
	return clonePlayer(next), false, nil
}

func (r *PlayerRepository) insertLocked(p player.Player) player.Player {
	now := r.store.now()
	r.store.lastPlayerID++
	p = clonePlayer(p)
	p.ID = r.store.lastPlayerID
	p.CreatedAt = now
	p.UpdatedAt = now
	r.store.players[p.ID] = p
	r.store.playerByExt[p.PlayerID] = p.ID
	return clonePlayer(p)
}
