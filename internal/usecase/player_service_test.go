package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/match-center/internal/domain/player"
	"github.com/riskibarqy/match-center/internal/domain/playerstats"
	playermock "github.com/riskibarqy/match-center/internal/mocks/domain/player"
	playerstatsmock "github.com/riskibarqy/match-center/internal/mocks/domain/playerstats"
	"github.com/stretchr/testify/mock"
)

func TestPlayerService_Get_FallsBackToPrimaryKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	playerRepo := playermock.NewRepository(t)
	statsRepo := playerstatsmock.NewRepository(t)
	service := NewPlayerService(playerRepo, statsRepo)

	stored := player.Player{ID: 42, PlayerID: "ext-42", TeamID: "t-1"}
	playerRepo.On("GetByExternalID", ctxMatcher(ctx), "42").Return(player.Player{}, false, nil).Once()
	playerRepo.On("GetByID", ctxMatcher(ctx), int64(42)).Return(stored, true, nil).Once()
	statsRepo.On("Get", ctxMatcher(ctx), int64(42)).Return(playerstats.Stats{}, false, nil).Once()

	got, err := service.Get(ctx, "42")
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if got.Player.PlayerID != "ext-42" {
		t.Fatalf("unexpected player: %+v", got.Player)
	}
	if got.Stats.PlayerID != 42 || !got.Stats.IsEmpty() {
		t.Fatalf("expected unrated stats for player, got %+v", got.Stats)
	}
}

func TestPlayerService_Stats_PlayerNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	playerRepo := playermock.NewRepository(t)
	service := NewPlayerService(playerRepo, playerstatsmock.NewRepository(t))

	playerRepo.On("GetByExternalID", ctxMatcher(ctx), "ghost").Return(player.Player{}, false, nil).Once()

	_, err := service.Stats(ctx, "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPlayerService_UpdateStats_RejectsOutOfRange(t *testing.T) {
	t.Parallel()

	service := NewPlayerService(playermock.NewRepository(t), playerstatsmock.NewRepository(t))

	_, err := service.UpdateStats(context.Background(), "p-1", playerstats.Stats{Speed: intPtr(11)})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPlayerService_UpdateStats_UpsertsForResolvedPlayer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	playerRepo := playermock.NewRepository(t)
	statsRepo := playerstatsmock.NewRepository(t)
	service := NewPlayerService(playerRepo, statsRepo)

	playerRepo.On("GetByExternalID", ctxMatcher(ctx), "p-1").Return(player.Player{ID: 5, PlayerID: "p-1"}, true, nil).Once()
	statsRepo.
		On("Upsert", ctxMatcher(ctx), int64(5), mock.MatchedBy(func(s playerstats.Stats) bool {
			return s.PlayerID == 5 && s.Vision != nil && *s.Vision == 8 && s.Speed == nil
		})).
		Return(playerstats.Stats{PlayerID: 5, Vision: intPtr(8)}, nil).
		Once()

	got, err := service.UpdateStats(ctx, "p-1", playerstats.Stats{Vision: intPtr(8)})
	if err != nil {
		t.Fatalf("update stats: %v", err)
	}
	if got.Vision == nil || *got.Vision != 8 {
		t.Fatalf("unexpected vision: %v", got.Vision)
	}
}

func TestPlayerService_Create_Conflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	playerRepo := playermock.NewRepository(t)
	service := NewPlayerService(playerRepo, playerstatsmock.NewRepository(t))

	playerRepo.On("GetByExternalID", ctxMatcher(ctx), "p-1").Return(player.Player{ID: 1, PlayerID: "p-1"}, true, nil).Once()

	_, err := service.Create(ctx, player.Player{PlayerID: "p-1", TeamID: "t-1"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestPlayerService_Create_RequiresTeam(t *testing.T) {
	t.Parallel()

	service := NewPlayerService(playermock.NewRepository(t), playerstatsmock.NewRepository(t))

	_, err := service.Create(context.Background(), player.Player{PlayerID: "p-1"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPlayerService_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	playerRepo := playermock.NewRepository(t)
	service := NewPlayerService(playerRepo, playerstatsmock.NewRepository(t))

	playerRepo.On("GetByExternalID", ctxMatcher(ctx), "p-9").Return(player.Player{ID: 9, PlayerID: "p-9"}, true, nil).Once()
	playerRepo.On("Delete", ctxMatcher(ctx), int64(9)).Return(true, nil).Once()

	if err := service.Delete(ctx, "p-9"); err != nil {
		t.Fatalf("delete player: %v", err)
	}
}
