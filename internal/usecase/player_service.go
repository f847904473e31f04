package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/match-center/internal/domain/player"
	"github.com/riskibarqy/match-center/internal/domain/playerstats"
)

// PlayerProfile is a player with their ratings. Stats fields are nil until rated.
type PlayerProfile struct {
	Player player.Player
	Stats  playerstats.Stats
}

type PlayerService struct {
	playerRepo player.Repository
	statsRepo  playerstats.Repository
}

func NewPlayerService(playerRepo player.Repository, statsRepo playerstats.Repository) *PlayerService {
	return &PlayerService{
		playerRepo: playerRepo,
		statsRepo:  statsRepo,
	}
}

func (s *PlayerService) List(ctx context.Context, teamID string) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.List")
	defer span.End()

	players, err := s.playerRepo.List(ctx, strings.TrimSpace(teamID))
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return players, nil
}

func (s *PlayerService) Get(ctx context.Context, ref string) (PlayerProfile, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Get")
	defer span.End()

	p, err := resolvePlayer(ctx, s.playerRepo, ref)
	if err != nil {
		return PlayerProfile{}, err
	}
	stats, err := s.loadStats(ctx, p.ID)
	if err != nil {
		return PlayerProfile{}, err
	}
	return PlayerProfile{Player: p, Stats: stats}, nil
}

func (s *PlayerService) Create(ctx context.Context, p player.Player) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Create")
	defer span.End()

	p.PlayerID = strings.TrimSpace(p.PlayerID)
	p.TeamID = strings.TrimSpace(p.TeamID)
	if err := p.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	_, exists, err := s.playerRepo.GetByExternalID(ctx, p.PlayerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by external id: %w", err)
	}
	if exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrConflict, p.PlayerID)
	}

	created, err := s.playerRepo.Create(ctx, p)
	if err != nil {
		if errors.Is(err, player.ErrDuplicatePlayerID) {
			return player.Player{}, fmt.Errorf("%w: player=%s", ErrConflict, p.PlayerID)
		}
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}
	return created, nil
}

func (s *PlayerService) Update(ctx context.Context, ref string, patch player.Patch) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Update")
	defer span.End()

	if patch.TeamID != nil && strings.TrimSpace(*patch.TeamID) == "" {
		return player.Player{}, fmt.Errorf("%w: team_id cannot be empty", ErrInvalidInput)
	}
	if patch.ShirtNumber != nil && *patch.ShirtNumber < 0 {
		return player.Player{}, fmt.Errorf("%w: shirt_number must be >= 0", ErrInvalidInput)
	}

	p, err := resolvePlayer(ctx, s.playerRepo, ref)
	if err != nil {
		return player.Player{}, err
	}

	updated, ok, err := s.playerRepo.Update(ctx, p.ID, patch)
	if err != nil {
		return player.Player{}, fmt.Errorf("update player=%s: %w", p.PlayerID, err)
	}
	if !ok {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, ref)
	}
	return updated, nil
}

func (s *PlayerService) Delete(ctx context.Context, ref string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Delete")
	defer span.End()

	p, err := resolvePlayer(ctx, s.playerRepo, ref)
	if err != nil {
		return err
	}
	deleted, err := s.playerRepo.Delete(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("delete player=%s: %w", p.PlayerID, err)
	}
	if !deleted {
		return fmt.Errorf("%w: player=%s", ErrNotFound, ref)
	}
	return nil
}

func (s *PlayerService) Stats(ctx context.Context, ref string) (playerstats.Stats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Stats")
	defer span.End()

	p, err := resolvePlayer(ctx, s.playerRepo, ref)
	if err != nil {
		return playerstats.Stats{}, err
	}
	return s.loadStats(ctx, p.ID)
}

// UpdateStats validates the ratings in patch and merges them into the
// player's row, creating it on first write.
func (s *PlayerService) UpdateStats(ctx context.Context, ref string, patch playerstats.Stats) (playerstats.Stats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.UpdateStats")
	defer span.End()

	if err := patch.Validate(); err != nil {
		return playerstats.Stats{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	p, err := resolvePlayer(ctx, s.playerRepo, ref)
	if err != nil {
		return playerstats.Stats{}, err
	}

	patch.PlayerID = p.ID
	out, err := s.statsRepo.Upsert(ctx, p.ID, patch)
	if err != nil {
		return playerstats.Stats{}, fmt.Errorf("upsert stats player=%s: %w", p.PlayerID, err)
	}
	return out, nil
}

func (s *PlayerService) loadStats(ctx context.Context, playerID int64) (playerstats.Stats, error) {
	stats, found, err := s.statsRepo.Get(ctx, playerID)
	if err != nil {
		return playerstats.Stats{}, fmt.Errorf("get stats player=%d: %w", playerID, err)
	}
	if !found {
		return playerstats.Stats{PlayerID: playerID}, nil
	}
	return stats, nil
}
