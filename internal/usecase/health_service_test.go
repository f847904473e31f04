package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

func TestHealthService_Check(t *testing.T) {
	t.Parallel()

	startedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		ping         error
		wantStatus   string
		wantDatabase string
	}{
		{name: "database reachable", wantStatus: HealthStatusOK, wantDatabase: DatabaseConnected},
		{name: "database down", ping: errors.New("dial tcp: connection refused"), wantStatus: HealthStatusError, wantDatabase: DatabaseDisconnected},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service := NewHealthService(pingerFunc(func(context.Context) error { return tc.ping }), startedAt)
			service.now = func() time.Time { return startedAt.Add(90 * time.Second) }

			got := service.Check(context.Background())
			if got.Status != tc.wantStatus || got.Database != tc.wantDatabase {
				t.Fatalf("unexpected report: %+v", got)
			}
			if got.UptimeSeconds != 90 {
				t.Fatalf("unexpected uptime: got=%d want=90", got.UptimeSeconds)
			}
		})
	}
}

func TestHealthService_ReadyWrapsDependencyError(t *testing.T) {
	t.Parallel()

	service := NewHealthService(pingerFunc(func(context.Context) error { return errors.New("timeout") }), time.Now())
	if err := service.Ready(context.Background()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
