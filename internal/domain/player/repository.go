package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	List(ctx context.Context, teamID string) ([]Player, error)
	GetByID(ctx context.Context, id int64) (Player, bool, error)
	GetByExternalID(ctx context.Context, playerID string) (Player, bool, error)
	Create(ctx context.Context, p Player) (Player, error)
	Update(ctx context.Context, id int64, patch Patch) (Player, bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
	// UpsertByExternalID reports created=true when the row did not exist before.
	UpsertByExternalID(ctx context.Context, p Player) (Player, bool, error)
}
