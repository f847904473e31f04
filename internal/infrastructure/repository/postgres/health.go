package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// HealthChecker probes the database with a trivial query.
type HealthChecker struct {
	db *sqlx.DB
}

func NewHealthChecker(db *sqlx.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

func (h *HealthChecker) Ping(ctx context.Context) error {
	var one int
	if err := h.db.GetContext(ctx, &one, "SELECT 1"); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}
