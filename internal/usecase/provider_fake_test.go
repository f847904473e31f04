package usecase

import (
	"context"
	"sync"
)

type fakeMatchProvider struct {
	mu          sync.Mutex
	league      LeagueMatches
	leagueErr   error
	details     map[string]ExternalMatchDetail
	detailErr   error
	detailCalls []string
}

func (f *fakeMatchProvider) FetchLeagueMatches(context.Context, string, string) (LeagueMatches, error) {
	if f.leagueErr != nil {
		return LeagueMatches{}, f.leagueErr
	}
	return f.league, nil
}

func (f *fakeMatchProvider) FetchMatchDetail(_ context.Context, matchID string) (ExternalMatchDetail, error) {
	f.mu.Lock()
	f.detailCalls = append(f.detailCalls, matchID)
	f.mu.Unlock()

	if f.detailErr != nil {
		return ExternalMatchDetail{}, f.detailErr
	}
	detail, ok := f.details[matchID]
	if !ok {
		return ExternalMatchDetail{}, ErrDependencyUnavailable
	}
	return detail, nil
}

func intPtr(v int) *int {
	return &v
}
