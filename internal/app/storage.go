package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/match-center/internal/config"
	"github.com/riskibarqy/match-center/internal/domain/match"
	"github.com/riskibarqy/match-center/internal/domain/player"
	"github.com/riskibarqy/match-center/internal/domain/playerstats"
	"github.com/riskibarqy/match-center/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/match-center/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/match-center/internal/platform/logging"
	"github.com/riskibarqy/match-center/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

const (
	dbPingTimeout     = 5 * time.Second
	dbMaxOpenConns    = 10
	dbMaxIdleConns    = 5
	dbConnMaxIdleTime = 5 * time.Minute
)

type storage struct {
	matches match.Repository
	players player.Repository
	stats   playerstats.Repository
	pinger  usecase.Pinger
	close   func() error
}

func openStorage(ctx context.Context, cfg config.Config, logger *logging.Logger) (storage, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return storage{
			matches: memory.NewMatchRepository(store),
			players: memory.NewPlayerRepository(store),
			stats:   memory.NewPlayerStatsRepository(store),
			close:   func() error { return nil },
		}, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return storage{}, err
	}
	logger.Info("postgres connected", "db_name", dbNameFromURL(cfg.DBURL))

	return storage{
		matches: postgres.NewMatchRepository(db),
		players: postgres.NewPlayerRepository(db),
		stats:   postgres.NewPlayerStatsRepository(db),
		pinger:  postgres.NewHealthChecker(db),
		close:   db.Close,
	}, nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := withApplicationName(cfg.DBURL, cfg.DBApplicationName)
	attrs := []attribute.KeyValue{attribute.String("db.system", "postgresql")}

	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithAttributes(attrs...),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxIdleTime(dbConnMaxIdleTime)
	otelsql.ReportDBStatsMetrics(db.DB, otelsql.WithAttributes(attrs...))

	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
