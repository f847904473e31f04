package cache

import (
	"context"
	"strings"

	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/domain/player"
	basecache "github.com/riskibarqy/match-center/internal/platform/cache"
	"github.com/riskibarqy/match-center/internal/usecase"
)

const (
	leagueMatchesPrefix = "matches:"
	matchPrefix         = "match:"
	playerPrefix        = "player:"
)

// MatchProvider caches upstream league lists. Match details always go upstream.
type MatchProvider struct {
	next  usecase.MatchProvider
	cache *basecache.Store
}

func NewMatchProvider(next usecase.MatchProvider, cache *basecache.Store) *MatchProvider {
	return &MatchProvider{next: next, cache: cache}
}

func (p *MatchProvider) FetchLeagueMatches(ctx context.Context, leagueID, seasonID string) (usecase.LeagueMatches, error) {
	key := LeagueMatchesKey(leagueID, seasonID)
	v, err := p.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		out, err := p.next.FetchLeagueMatches(ctx, leagueID, seasonID)
		if err != nil {
			return nil, err
		}
		return cloneLeagueMatches(out), nil
	})
	if err != nil {
		return usecase.LeagueMatches{}, err
	}

	cached, _ := v.(usecase.LeagueMatches)
	return cloneLeagueMatches(cached), nil
}

func (p *MatchProvider) FetchMatchDetail(ctx context.Context, matchID string) (usecase.ExternalMatchDetail, error) {
	return p.next.FetchMatchDetail(ctx, matchID)
}

func LeagueMatchesKey(leagueID, seasonID string) string {
	return leagueMatchesPrefix + strings.TrimSpace(leagueID) + ":" + strings.TrimSpace(seasonID)
}

func cloneLeagueMatches(in usecase.LeagueMatches) usecase.LeagueMatches {
	return usecase.LeagueMatches{
		Matches:  append([]usecase.ExternalMatch(nil), in.Matches...),
		Rejected: in.Rejected,
	}
}

// MatchRepository caches the full list and the count; every write drops
// both.
type MatchRepository struct {
	match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{Repository: next, cache: cache}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	v, err := r.cache.GetOrLoad(ctx, matchPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.Repository.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Match)
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) Count(ctx context.Context) (int, error) {
	v, err := r.cache.GetOrLoad(ctx, matchPrefix+"count", func(ctx context.Context) (any, error) {
		return r.Repository.Count(ctx)
	})
	if err != nil {
		return 0, err
	}

	count, _ := v.(int)
	return count, nil
}

func (r *MatchRepository) Create(ctx context.Context, m match.Match) (match.Match, error) {
	out, err := r.Repository.Create(ctx, m)
	if err != nil {
		return match.Match{}, err
	}
	r.invalidate(ctx)
	return out, nil
}

func (r *MatchRepository) Update(ctx context.Context, id int64, patch match.Patch) (match.Match, bool, error) {
	out, ok, err := r.Repository.Update(ctx, id, patch)
	if err != nil {
		return match.Match{}, false, err
	}
	r.invalidate(ctx)
	return out, ok, nil
}

func (r *MatchRepository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := r.Repository.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	r.invalidate(ctx)
	return deleted, nil
}

func (r *MatchRepository) UpsertByExternalID(ctx context.Context, m match.Match) (match.Match, error) {
	out, err := r.Repository.UpsertByExternalID(ctx, m)
	if err != nil {
		return match.Match{}, err
	}
	r.invalidate(ctx)
	return out, nil
}

func (r *MatchRepository) invalidate(ctx context.Context) {
	r.cache.DeletePrefix(ctx, matchPrefix)
}

// PlayerRepository caches player lists per team filter.
type PlayerRepository struct {
	player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{Repository: next, cache: cache}
}

func (r *PlayerRepository) List(ctx context.Context, teamID string) ([]player.Player, error) {
	key := playerPrefix + "list:" + strings.TrimSpace(teamID)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.Repository.List(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) (player.Player, error) {
	out, err := r.Repository.Create(ctx, p)
	if err != nil {
		return player.Player{}, err
	}
	r.invalidate(ctx)
	return out, nil
}

func (r *PlayerRepository) Update(ctx context.Context, id int64, patch player.Patch) (player.Player, bool, error) {
	out, ok, err := r.Repository.Update(ctx, id, patch)
	if err != nil {
		return player.Player{}, false, err
	}
	r.invalidate(ctx)
	return out, ok, nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := r.Repository.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	r.invalidate(ctx)
	return deleted, nil
}

func (r *PlayerRepository) UpsertByExternalID(ctx context.Context, p player.Player) (player.Player, bool, error) {
	out, created, err := r.Repository.UpsertByExternalID(ctx, p)
	if err != nil {
		return player.Player{}, false, err
	}
	r.invalidate(ctx)
	return out, created, nil
}

func (r *PlayerRepository) invalidate(ctx context.Context) {
	r.cache.DeletePrefix(ctx, playerPrefix)
}
