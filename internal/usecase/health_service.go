package usecase

import (
	"context"
	"fmt"
	"time"
)

// Pinger checks that the backing store answers a trivial query.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthReport struct {
	Status        string
	Timestamp     time.Time
	UptimeSeconds int64
	Database      string
}

const (
	HealthStatusOK    = "ok"
	HealthStatusError = "error"

	DatabaseConnected    = "connected"
	DatabaseDisconnected = "disconnected"
)

type HealthService struct {
	db        Pinger
	startedAt time.Time
	now       func() time.Time
}

func NewHealthService(db Pinger, startedAt time.Time) *HealthService {
	return &HealthService{
		db:        db,
		startedAt: startedAt,
		now:       time.Now,
	}
}

func (s *HealthService) Check(ctx context.Context) HealthReport {
	ctx, span := startUsecaseSpan(ctx, "usecase.HealthService.Check")
	defer span.End()

	now := s.now()
	report := HealthReport{
		Status:        HealthStatusOK,
		Timestamp:     now.UTC(),
		UptimeSeconds: int64(now.Sub(s.startedAt).Seconds()),
		Database:      DatabaseConnected,
	}
	if err := s.Ready(ctx); err != nil {
		report.Status = HealthStatusError
		report.Database = DatabaseDisconnected
	}
	return report
}

// Ready runs the store probe; a nil Pinger counts as ready.
func (s *HealthService) Ready(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: database ping: %v", ErrDependencyUnavailable, err)
	}
	return nil
}

func (s *HealthService) Now() time.Time {
	return s.now().UTC()
}
