package match

import (
	"context"

	"github.com/riskibarqy/match-center/internal/domain/player"
)

// Repository describes match persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Match, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id int64) (Match, bool, error)
	GetByExternalID(ctx context.Context, matchID string) (Match, bool, error)
	ListByPlayer(ctx context.Context, playerID int64) ([]Match, error)
	ListMissingCompetition(ctx context.Context) ([]Match, error)
	Create(ctx context.Context, m Match) (Match, error)
	Update(ctx context.Context, id int64, patch Patch) (Match, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	// UpsertByExternalID inserts or updates by MatchID and keeps the primary key stable.
	UpsertByExternalID(ctx context.Context, m Match) (Match, error)
	AttachPlayer(ctx context.Context, matchID, playerID int64) error
	ListPlayers(ctx context.Context, matchID int64) ([]player.Player, error)
	ListEvents(ctx context.Context, matchID int64) ([]Event, error)
	ListEventsByPlayer(ctx context.Context, matchID, playerID int64) ([]Event, error)
	ReplacePlayerEvents(ctx context.Context, matchID, playerID int64, events []Event) error
}
