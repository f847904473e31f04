package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/match-center/internal/domain/playerstats"
)

type PlayerStatsRepository struct {
	store *Store
}

func NewPlayerStatsRepository(store *Store) *PlayerStatsRepository {
	return &PlayerStatsRepository{store: store}
}

func (r *PlayerStatsRepository) Get(_ context.Context, playerID int64) (playerstats.Stats, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	st, ok := r.store.stats[playerID]
	if !ok {
		return playerstats.Stats{}, false, nil
	}
	return cloneStats(st), true, nil
}

func (r *PlayerStatsRepository) Upsert(_ context.Context, playerID int64, patch playerstats.Stats) (playerstats.Stats, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.players[playerID]; !ok {
		return playerstats.Stats{}, fmt.Errorf("upsert player stats: player=%d does not exist", playerID)
	}

	now := r.store.now()
	current, ok := r.store.stats[playerID]
	if !ok {
		current = playerstats.Stats{PlayerID: playerID, CreatedAt: now}
	}
	next := current.Merge(patch)
	next.PlayerID = playerID
	next.UpdatedAt = now
	r.store.stats[playerID] = next
	return cloneStats(next), nil
}

func (r *PlayerStatsRepository) Ensure(_ context.Context, playerID int64, defaults playerstats.Stats) (playerstats.Stats, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if st, ok := r.store.stats[playerID]; ok {
		return cloneStats(st), false, nil
	}
	if _, ok := r.store.players[playerID]; !ok {
		return playerstats.Stats{}, false, fmt.Errorf("ensure player stats: player=%d does not exist", playerID)
	}

	now := r.store.now()
	st := defaults.Clamp()
	st.PlayerID = playerID
	st.CreatedAt = now
	st.UpdatedAt = now
	r.store.stats[playerID] = cloneStats(st)
	return st, true, nil
}
