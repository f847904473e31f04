package playerstats

import "context"

type Repository interface {
	Get(ctx context.Context, playerID int64) (Stats, bool, error)
	// Upsert merges the set ratings of patch into the player's row, creating it when absent.
	Upsert(ctx context.Context, playerID int64, patch Stats) (Stats, error)
	// Ensure inserts defaults only when the player has no row yet.
	Ensure(ctx context.Context, playerID int64, defaults Stats) (Stats, bool, error)
}
