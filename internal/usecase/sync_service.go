package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/domain/player"
	"github.com/riskibarqy/match-center/internal/domain/playerstats"
	"github.com/riskibarqy/match-center/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const defaultSyncWorkers = 4

type SyncConfig struct {
	MaxWorkers int
}

type SyncResult struct {
	Success bool `json:"success"`
	Synced  int  `json:"synced"`
	Skipped int  `json:"skipped"`
	Failed  int  `json:"failed"`
	Total   int  `json:"total"`
}

type CompetitionUpdateResult struct {
	Updated int `json:"updated"`
	Total   int `json:"total"`
}

type EnrichResult struct {
	Enriched int `json:"enriched"`
	Failed   int `json:"failed"`
	Total    int `json:"total"`
}

// SyncService copies upstream league lists and match details into storage.
// Every batch item is independent: one failure is logged and counted.
type SyncService struct {
	matchRepo  match.Repository
	playerRepo player.Repository
	statsRepo  playerstats.Repository
	provider   MatchProvider
	cfg        SyncConfig
	logger     *logging.Logger
}

func NewSyncService(
	matchRepo match.Repository,
	playerRepo player.Repository,
	statsRepo playerstats.Repository,
	provider MatchProvider,
	cfg SyncConfig,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = defaultSyncWorkers
	}

	return &SyncService{
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
		statsRepo:  statsRepo,
		provider:   provider,
		cfg:        cfg,
		logger:     logger,
	}
}

func (s *SyncService) SyncLeague(ctx context.Context, leagueID, seasonID string) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncLeague")
	defer span.End()

	leagueID, seasonID, err := normalizeLeagueSeason(leagueID, seasonID)
	if err != nil {
		return SyncResult{}, err
	}
	if s.provider == nil {
		return SyncResult{}, fmt.Errorf("%w: match provider is not configured", ErrDependencyUnavailable)
	}

	list, err := s.provider.FetchLeagueMatches(ctx, leagueID, seasonID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch league matches league=%s season=%s: %w", leagueID, seasonID, err)
	}

	return s.persistLeague(ctx, list, "league_id", leagueID, "season_id", seasonID)
}

// ImportLeague stores an already parsed league list, such as a saved upstream
// payload read from disk.
func (s *SyncService) ImportLeague(ctx context.Context, list LeagueMatches) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.ImportLeague")
	defer span.End()

	return s.persistLeague(ctx, list, "source", "import")
}

func (s *SyncService) persistLeague(ctx context.Context, list LeagueMatches, logArgs ...any) (SyncResult, error) {
	result := SyncResult{
		Success: true,
		Skipped: list.Rejected,
		Total:   list.Total(),
	}
	if list.Rejected > 0 {
		s.logger.WarnContext(ctx, "league sync skipped records without match id",
			append(slices.Clone(logArgs), "skipped", list.Rejected)...,
		)
	}
	if len(list.Matches) == 0 {
		return result, nil
	}

	workerPool, err := ants.NewPool(min(s.cfg.MaxWorkers, len(list.Matches)))
	if err != nil {
		return SyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var syncedCount atomic.Int32
	var failedCount atomic.Int32
	var workers sync.WaitGroup
	for _, item := range list.Matches {
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			if err := ctx.Err(); err != nil {
				failedCount.Add(1)
				return
			}
			if _, err := s.matchRepo.UpsertByExternalID(ctx, item.ToDomain()); err != nil {
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "league sync upsert failed",
					append(slices.Clone(logArgs), "match_id", item.ExternalID, "error", err)...,
				)
				return
			}
			syncedCount.Add(1)
		}); err != nil {
			workers.Done()
			failedCount.Add(1)
			s.logger.WarnContext(ctx, "league sync submit failed", "match_id", item.ExternalID, "error", err)
		}
	}
	workers.Wait()

	result.Synced = int(syncedCount.Load())
	result.Failed = int(failedCount.Load())
	s.logger.InfoContext(ctx, "league sync finished",
		append(logArgs,
			"synced", result.Synced,
			"skipped", result.Skipped,
			"failed", result.Failed,
			"total", result.Total,
		)...,
	)
	return result, nil
}

// UpdateCompetitions backfills the competition label of stored matches that
// have none by re-reading each match from upstream.
func (s *SyncService) UpdateCompetitions(ctx context.Context) (CompetitionUpdateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.UpdateCompetitions")
	defer span.End()

	if s.provider == nil {
		return CompetitionUpdateResult{}, fmt.Errorf("%w: match provider is not configured", ErrDependencyUnavailable)
	}

	rows, err := s.matchRepo.ListMissingCompetition(ctx)
	if err != nil {
		return CompetitionUpdateResult{}, fmt.Errorf("list matches missing competition: %w", err)
	}

	var updated atomic.Int32
	workers := pool.New().WithMaxGoroutines(s.cfg.MaxWorkers)
	for _, row := range rows {
		workers.Go(func() {
			detail, err := s.provider.FetchMatchDetail(ctx, row.MatchID)
			if err != nil {
				s.logger.WarnContext(ctx, "competition backfill fetch failed", "match_id", row.MatchID, "error", err)
				return
			}
			competition := firstNonEmpty(detail.Match.Competition, detail.Match.League)
			if competition == "" {
				return
			}
			if _, ok, err := s.matchRepo.Update(ctx, row.ID, match.Patch{Competition: &competition}); err != nil || !ok {
				s.logger.WarnContext(ctx, "competition backfill update failed",
					"match_id", row.MatchID,
					"found", ok,
					"error", err,
				)
				return
			}
			updated.Add(1)
		})
	}
	workers.Wait()

	return CompetitionUpdateResult{Updated: int(updated.Load()), Total: len(rows)}, nil
}

// EnrichMatches pulls roster, events and video details for the given matches,
// or every stored match when refs is empty.
func (s *SyncService) EnrichMatches(ctx context.Context, refs []string) (EnrichResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.EnrichMatches")
	defer span.End()

	if s.provider == nil {
		return EnrichResult{}, fmt.Errorf("%w: match provider is not configured", ErrDependencyUnavailable)
	}

	targets, missing, err := s.enrichTargets(ctx, refs)
	if err != nil {
		return EnrichResult{}, err
	}

	var enriched atomic.Int32
	var failed atomic.Int32
	failed.Add(int32(missing))

	workers := pool.New().WithMaxGoroutines(s.cfg.MaxWorkers)
	for _, m := range targets {
		workers.Go(func() {
			if err := s.enrichMatch(ctx, m); err != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "match enrich failed", "match_id", m.MatchID, "error", err)
				return
			}
			enriched.Add(1)
		})
	}
	workers.Wait()

	result := EnrichResult{
		Enriched: int(enriched.Load()),
		Failed:   int(failed.Load()),
		Total:    len(targets) + missing,
	}
	s.logger.InfoContext(ctx, "match enrich finished",
		"enriched", result.Enriched,
		"failed", result.Failed,
		"total", result.Total,
	)
	return result, nil
}

func (s *SyncService) enrichTargets(ctx context.Context, refs []string) ([]match.Match, int, error) {
	if len(refs) == 0 {
		items, err := s.matchRepo.List(ctx)
		if err != nil {
			return nil, 0, fmt.Errorf("list matches for enrich: %w", err)
		}
		return items, 0, nil
	}

	seen := make(map[string]struct{}, len(refs))
	out := make([]match.Match, 0, len(refs))
	missing := 0
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}

		m, found, err := s.matchRepo.GetByExternalID(ctx, ref)
		if err != nil {
			return nil, 0, fmt.Errorf("get match by external id: %w", err)
		}
		if !found {
			s.logger.WarnContext(ctx, "match enrich target not stored", "match_id", ref)
			missing++
			continue
		}
		out = append(out, m)
	}
	return out, missing, nil
}

func (s *SyncService) enrichMatch(ctx context.Context, m match.Match) error {
	detail, err := s.provider.FetchMatchDetail(ctx, m.MatchID)
	if err != nil {
		return fmt.Errorf("fetch match detail: %w", err)
	}

	patch := match.Patch{}
	if v := strings.TrimSpace(detail.VideoURL); v != "" {
		patch.VideoURL = &v
	}
	if v := strings.TrimSpace(detail.PxltGameID); v != "" {
		patch.PxltGameID = &v
	}
	if !patch.IsEmpty() {
		if _, _, err := s.matchRepo.Update(ctx, m.ID, patch); err != nil {
			return fmt.Errorf("update match video: %w", err)
		}
	}

	for _, item := range detail.Players {
		candidate := item.ToDomain()
		if err := candidate.Validate(); err != nil {
			s.logger.WarnContext(ctx, "match enrich skipped roster player", "match_id", m.MatchID, "error", err)
			continue
		}

		p, _, err := s.playerRepo.UpsertByExternalID(ctx, candidate)
		if err != nil {
			return fmt.Errorf("upsert player=%s: %w", candidate.PlayerID, err)
		}
		if err := s.matchRepo.AttachPlayer(ctx, m.ID, p.ID); err != nil {
			return fmt.Errorf("attach player=%s: %w", p.PlayerID, err)
		}
		if _, _, err := s.statsRepo.Ensure(ctx, p.ID, playerstats.Defaults(p.ID, playerstats.DefaultValue)); err != nil {
			return fmt.Errorf("ensure stats player=%s: %w", p.PlayerID, err)
		}

		events := make([]match.Event, 0, len(item.Events))
		for _, e := range item.Events {
			events = append(events, match.Event{
				MatchID:  m.ID,
				PlayerID: p.ID,
				Type:     e.Type,
				Minute:   max(0, e.Minute),
			})
		}
		if err := s.matchRepo.ReplacePlayerEvents(ctx, m.ID, p.ID, events); err != nil {
			return fmt.Errorf("replace events player=%s: %w", p.PlayerID, err)
		}
	}
	return nil
}
