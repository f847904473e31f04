package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/domain/player"
	"github.com/riskibarqy/match-center/internal/domain/playerstats"
	"github.com/riskibarqy/match-center/internal/infrastructure/repository/memory"
	matchmock "github.com/riskibarqy/match-center/internal/mocks/domain/match"
	playermock "github.com/riskibarqy/match-center/internal/mocks/domain/player"
	playerstatsmock "github.com/riskibarqy/match-center/internal/mocks/domain/playerstats"
	"github.com/riskibarqy/match-center/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func newTestSyncService(t *testing.T, provider MatchProvider) (*SyncService, *matchmock.Repository, *playermock.Repository, *playerstatsmock.Repository) {
	t.Helper()

	matchRepo := matchmock.NewRepository(t)
	playerRepo := playermock.NewRepository(t)
	statsRepo := playerstatsmock.NewRepository(t)
	service := NewSyncService(matchRepo, playerRepo, statsRepo, provider, SyncConfig{MaxWorkers: 2}, logging.NewNop())
	return service, matchRepo, playerRepo, statsRepo
}

func TestSyncService_SyncLeague_CountsSyncedAndSkipped(t *testing.T) {
	t.Parallel()

	provider := &fakeMatchProvider{league: LeagueMatches{
		Matches: []ExternalMatch{
			{ExternalID: "1001", HomeTeam: "A", AwayTeam: "B", HomeScore: intPtr(2), AwayScore: intPtr(0)},
			{ExternalID: "1002", HomeTeam: "C", AwayTeam: "D"},
		},
		Rejected: 1,
	}}
	service, matchRepo, _, _ := newTestSyncService(t, provider)

	matchRepo.
		On("UpsertByExternalID", mock.Anything, mock.MatchedBy(func(m match.Match) bool {
			return m.MatchID == "1001" && m.Status == match.StatusCompleted
		})).
		Return(match.Match{ID: 1, MatchID: "1001"}, nil).
		Once()
	matchRepo.
		On("UpsertByExternalID", mock.Anything, mock.MatchedBy(func(m match.Match) bool {
			return m.MatchID == "1002" && m.Status == match.StatusScheduled
		})).
		Return(match.Match{ID: 2, MatchID: "1002"}, nil).
		Once()

	got, err := service.SyncLeague(context.Background(), " 726 ", "25")
	if err != nil {
		t.Fatalf("sync league: %v", err)
	}
	want := SyncResult{Success: true, Synced: 2, Skipped: 1, Failed: 0, Total: 3}
	if got != want {
		t.Fatalf("unexpected result: got=%+v want=%+v", got, want)
	}
}

func TestSyncService_SyncLeague_ContinuesPastRowFailures(t *testing.T) {
	t.Parallel()

	provider := &fakeMatchProvider{league: LeagueMatches{Matches: []ExternalMatch{
		{ExternalID: "ok", HomeTeam: "A", AwayTeam: "B"},
		{ExternalID: "bad", HomeTeam: "C", AwayTeam: "D"},
	}}}
	service, matchRepo, _, _ := newTestSyncService(t, provider)

	matchRepo.
		On("UpsertByExternalID", mock.Anything, mock.MatchedBy(func(m match.Match) bool { return m.MatchID == "ok" })).
		Return(match.Match{ID: 1}, nil).
		Once()
	matchRepo.
		On("UpsertByExternalID", mock.Anything, mock.MatchedBy(func(m match.Match) bool { return m.MatchID == "bad" })).
		Return(match.Match{}, errors.New("deadlock detected")).
		Once()

	got, err := service.SyncLeague(context.Background(), "726", "25")
	if err != nil {
		t.Fatalf("sync league: %v", err)
	}
	if got.Synced != 1 || got.Failed != 1 || got.Total != 2 || !got.Success {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestSyncService_SyncLeague_RepeatedSyncUpdatesInPlace(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	matchRepo := memory.NewMatchRepository(store)
	provider := &fakeMatchProvider{league: LeagueMatches{Matches: []ExternalMatch{
		{ExternalID: "1001", HomeTeam: "A", AwayTeam: "B", HomeScore: intPtr(2), AwayScore: intPtr(0)},
		{ExternalID: "1002", HomeTeam: "C", AwayTeam: "D"},
	}}}
	service := NewSyncService(
		matchRepo,
		memory.NewPlayerRepository(store),
		memory.NewPlayerStatsRepository(store),
		provider,
		SyncConfig{MaxWorkers: 2},
		logging.NewNop(),
	)
	ctx := context.Background()

	idsByExternal := func() map[string]int64 {
		t.Helper()
		items, err := matchRepo.List(ctx)
		if err != nil {
			t.Fatalf("list matches: %v", err)
		}
		out := make(map[string]int64, len(items))
		for _, m := range items {
			if _, dup := out[m.MatchID]; dup {
				t.Fatalf("duplicate row for match_id=%s", m.MatchID)
			}
			out[m.MatchID] = m.ID
		}
		return out
	}

	if _, err := service.SyncLeague(ctx, "726", "25"); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	first := idsByExternal()

	got, err := service.SyncLeague(ctx, "726", "25")
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if got.Synced != 2 || got.Failed != 0 {
		t.Fatalf("unexpected second sync result: %+v", got)
	}
	second := idsByExternal()
	if len(second) != 2 {
		t.Fatalf("unexpected row count after resync: got=%d want=2", len(second))
	}
	for externalID, id := range first {
		if second[externalID] != id {
			t.Fatalf("primary key changed for match_id=%s: got=%d want=%d", externalID, second[externalID], id)
		}
	}

	provider.league.Matches[1].HomeScore = intPtr(1)
	provider.league.Matches[1].AwayScore = intPtr(1)
	if _, err := service.SyncLeague(ctx, "726", "25"); err != nil {
		t.Fatalf("third sync: %v", err)
	}
	updated, found, err := matchRepo.GetByExternalID(ctx, "1002")
	if err != nil || !found {
		t.Fatalf("get synced match: found=%v err=%v", found, err)
	}
	if updated.ID != first["1002"] {
		t.Fatalf("primary key changed on update: got=%d want=%d", updated.ID, first["1002"])
	}
	if updated.HomeScore == nil || *updated.HomeScore != 1 || updated.Status != match.StatusCompleted {
		t.Fatalf("expected upstream score to win on resync, got %+v", updated)
	}
	if count, _ := matchRepo.Count(ctx); count != 2 {
		t.Fatalf("unexpected row count: got=%d want=2", count)
	}
}

func TestSyncService_SyncLeague_UpstreamFailure(t *testing.T) {
	t.Parallel()

	provider := &fakeMatchProvider{leagueErr: ErrDependencyUnavailable}
	service, _, _, _ := newTestSyncService(t, provider)

	_, err := service.SyncLeague(context.Background(), "726", "25")
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestSyncService_SyncLeague_RequiresIDs(t *testing.T) {
	t.Parallel()

	service, _, _, _ := newTestSyncService(t, &fakeMatchProvider{})

	if _, err := service.SyncLeague(context.Background(), "", "25"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSyncService_ImportLeague_WorksWithoutProvider(t *testing.T) {
	t.Parallel()

	service, matchRepo, _, _ := newTestSyncService(t, nil)
	matchRepo.
		On("UpsertByExternalID", mock.Anything, mock.MatchedBy(func(m match.Match) bool { return m.MatchID == "seed-1" })).
		Return(match.Match{ID: 1, MatchID: "seed-1"}, nil).
		Once()

	got, err := service.ImportLeague(context.Background(), LeagueMatches{
		Matches:  []ExternalMatch{{ExternalID: "seed-1", HomeTeam: "A", AwayTeam: "B"}},
		Rejected: 2,
	})
	if err != nil {
		t.Fatalf("import league: %v", err)
	}
	want := SyncResult{Success: true, Synced: 1, Skipped: 2, Total: 3}
	if got != want {
		t.Fatalf("unexpected result: got=%+v want=%+v", got, want)
	}
}

func TestSyncService_UpdateCompetitions_BackfillsFromDetail(t *testing.T) {
	t.Parallel()

	provider := &fakeMatchProvider{details: map[string]ExternalMatchDetail{
		"m-1": {Match: ExternalMatch{League: "Youth League"}},
		"m-2": {Match: ExternalMatch{}},
	}}
	service, matchRepo, _, _ := newTestSyncService(t, provider)

	matchRepo.On("ListMissingCompetition", mock.Anything).Return([]match.Match{
		{ID: 1, MatchID: "m-1"},
		{ID: 2, MatchID: "m-2"},
		{ID: 3, MatchID: "m-3"},
	}, nil).Once()
	matchRepo.
		On("Update", mock.Anything, int64(1), mock.MatchedBy(func(p match.Patch) bool {
			return p.Competition != nil && *p.Competition == "Youth League"
		})).
		Return(match.Match{ID: 1}, true, nil).
		Once()

	got, err := service.UpdateCompetitions(context.Background())
	if err != nil {
		t.Fatalf("update competitions: %v", err)
	}
	if got.Updated != 1 || got.Total != 3 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestSyncService_EnrichMatches_PersistsRosterAndEvents(t *testing.T) {
	t.Parallel()

	provider := &fakeMatchProvider{details: map[string]ExternalMatchDetail{
		"m-1": {
			VideoURL: "https://video.example/m-1.m3u8",
			Players: []ExternalRosterPlayer{
				{
					ExternalID: "p-1",
					TeamID:     "t-1",
					FirstName:  "Luka",
					LastName:   "Novak",
					IsStarter:  true,
					Events:     []ExternalPlayerEvent{{Type: match.EventGoal, Minute: 33}, {Type: match.EventSubstitution, Minute: -2}},
				},
				{ExternalID: "p-missing-team"},
			},
		},
	}}
	service, matchRepo, playerRepo, statsRepo := newTestSyncService(t, provider)

	stored := match.Match{ID: 10, MatchID: "m-1"}
	enriched := player.Player{ID: 100, PlayerID: "p-1", TeamID: "t-1", IsStarter: true}

	matchRepo.On("GetByExternalID", mock.Anything, "m-1").Return(stored, true, nil).Once()
	matchRepo.On("GetByExternalID", mock.Anything, "m-unknown").Return(match.Match{}, false, nil).Once()
	matchRepo.
		On("Update", mock.Anything, int64(10), mock.MatchedBy(func(p match.Patch) bool {
			return p.VideoURL != nil && *p.VideoURL == "https://video.example/m-1.m3u8" && p.PxltGameID == nil
		})).
		Return(stored, true, nil).
		Once()
	playerRepo.
		On("UpsertByExternalID", mock.Anything, mock.MatchedBy(func(p player.Player) bool { return p.PlayerID == "p-1" })).
		Return(enriched, true, nil).
		Once()
	matchRepo.On("AttachPlayer", mock.Anything, int64(10), int64(100)).Return(nil).Once()
	statsRepo.
		On("Ensure", mock.Anything, int64(100), mock.MatchedBy(func(s playerstats.Stats) bool {
			return s.Passing != nil && *s.Passing == playerstats.DefaultValue
		})).
		Return(playerstats.Defaults(100, playerstats.DefaultValue), true, nil).
		Once()
	matchRepo.
		On("ReplacePlayerEvents", mock.Anything, int64(10), int64(100), mock.MatchedBy(func(events []match.Event) bool {
			return len(events) == 2 && events[0].Minute == 33 && events[1].Minute == 0
		})).
		Return(nil).
		Once()

	got, err := service.EnrichMatches(context.Background(), []string{"m-1", "m-1", "m-unknown"})
	if err != nil {
		t.Fatalf("enrich matches: %v", err)
	}
	want := EnrichResult{Enriched: 1, Failed: 1, Total: 2}
	if got != want {
		t.Fatalf("unexpected result: got=%+v want=%+v", got, want)
	}
}

func TestSyncService_EnrichMatches_CountsDetailFailures(t *testing.T) {
	t.Parallel()

	provider := &fakeMatchProvider{detailErr: ErrDependencyUnavailable}
	service, matchRepo, _, _ := newTestSyncService(t, provider)

	matchRepo.On("List", mock.Anything).Return([]match.Match{{ID: 1, MatchID: "a"}, {ID: 2, MatchID: "b"}}, nil).Once()

	got, err := service.EnrichMatches(context.Background(), nil)
	if err != nil {
		t.Fatalf("enrich matches: %v", err)
	}
	if got.Enriched != 0 || got.Failed != 2 || got.Total != 2 {
		t.Fatalf("unexpected result: %+v", got)
	}
}
