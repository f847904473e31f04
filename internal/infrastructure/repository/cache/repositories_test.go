package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/match-center/internal/domain/match"
	matchmock "github.com/riskibarqy/match-center/internal/mocks/domain/match"
	basecache "github.com/riskibarqy/match-center/internal/platform/cache"
	"github.com/riskibarqy/match-center/internal/usecase"
	"github.com/stretchr/testify/mock"
)

type countingProvider struct {
	leagueCalls atomic.Int32
	detailCalls atomic.Int32
	err         error
}

func (p *countingProvider) FetchLeagueMatches(context.Context, string, string) (usecase.LeagueMatches, error) {
	p.leagueCalls.Add(1)
	if p.err != nil {
		return usecase.LeagueMatches{}, p.err
	}
	return usecase.LeagueMatches{Matches: []usecase.ExternalMatch{{ExternalID: "1"}}, Rejected: 1}, nil
}

func (p *countingProvider) FetchMatchDetail(context.Context, string) (usecase.ExternalMatchDetail, error) {
	p.detailCalls.Add(1)
	return usecase.ExternalMatchDetail{}, nil
}

func TestMatchProvider_CachesLeagueListPerLeagueAndSeason(t *testing.T) {
	t.Parallel()

	next := &countingProvider{}
	provider := NewMatchProvider(next, basecache.NewStore(time.Minute))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := provider.FetchLeagueMatches(ctx, "726", "25")
		if err != nil {
			t.Fatalf("fetch league matches: %v", err)
		}
		if got.Total() != 2 {
			t.Fatalf("unexpected total: got=%d want=2", got.Total())
		}
	}
	if _, err := provider.FetchLeagueMatches(ctx, "726", "26"); err != nil {
		t.Fatalf("fetch other season: %v", err)
	}
	if got := next.leagueCalls.Load(); got != 2 {
		t.Fatalf("unexpected upstream calls: got=%d want=2", got)
	}

	_, _ = provider.FetchMatchDetail(ctx, "1")
	_, _ = provider.FetchMatchDetail(ctx, "1")
	if got := next.detailCalls.Load(); got != 2 {
		t.Fatalf("expected match details to bypass the cache, calls=%d", got)
	}
}

func TestMatchProvider_DoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	next := &countingProvider{err: usecase.ErrDependencyUnavailable}
	provider := NewMatchProvider(next, basecache.NewStore(time.Minute))

	for i := 0; i < 2; i++ {
		if _, err := provider.FetchLeagueMatches(context.Background(), "1", "2"); !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
		}
	}
	if got := next.leagueCalls.Load(); got != 2 {
		t.Fatalf("unexpected upstream calls: got=%d want=2", got)
	}
}

func TestMatchRepository_WriteInvalidatesList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := matchmock.NewRepository(t)
	repo := NewMatchRepository(next, basecache.NewStore(time.Minute))

	next.On("List", mock.Anything).Return([]match.Match{{ID: 1}}, nil).Once()
	next.On("UpsertByExternalID", mock.Anything, mock.Anything).Return(match.Match{ID: 2}, nil).Once()
	next.On("List", mock.Anything).Return([]match.Match{{ID: 1}, {ID: 2}}, nil).Once()

	first, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if again, _ := repo.List(ctx); len(again) != len(first) {
		t.Fatalf("expected cached list, got %d items", len(again))
	}
	if _, err := repo.UpsertByExternalID(ctx, match.Match{MatchID: "2"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	after, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list after write: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("unexpected list after write: got=%d want=2", len(after))
	}
}

func TestLeagueMatchesKey(t *testing.T) {
	t.Parallel()

	if got := LeagueMatchesKey(" 726 ", "25"); got != "matches:726:25" {
		t.Fatalf("unexpected key: got=%s want=matches:726:25", got)
	}
}
