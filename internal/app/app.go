package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/match-center/external/easycoach"
	"github.com/riskibarqy/match-center/internal/config"
	"github.com/riskibarqy/match-center/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/match-center/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/match-center/internal/platform/cache"
	"github.com/riskibarqy/match-center/internal/platform/id"
	"github.com/riskibarqy/match-center/internal/platform/logging"
	"github.com/riskibarqy/match-center/internal/platform/resilience"
	"github.com/riskibarqy/match-center/internal/usecase"
)

// Services is the wired application graph shared by the API server and the
// sync command.
type Services struct {
	Match  *usecase.MatchService
	Player *usecase.PlayerService
	Sync   *usecase.SyncService
	Health *usecase.HealthService

	close func() error
}

func NewServices(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	matchRepo := store.matches
	playerRepo := store.players
	var provider usecase.MatchProvider = easycoach.NewClient(easycoach.ClientConfig{
		BaseURL:      cfg.EasyCoachBaseURL,
		Token:        cfg.EasyCoachToken,
		TokenInQuery: cfg.EasyCoachTokenInQuery,
		Timeout:      cfg.EasyCoachTimeout,
		MaxRetries:   cfg.EasyCoachMaxRetries,
		Logger:       logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.EasyCoachCircuitEnabled,
			FailureThreshold: cfg.EasyCoachCircuitFailureCount,
			OpenTimeout:      cfg.EasyCoachCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.EasyCoachCircuitHalfOpenMaxReq,
		},
	})

	if cfg.CacheEnabled {
		readCache := basecache.NewStore(cfg.CacheTTL)
		provider = cache.NewMatchProvider(provider, readCache)
		matchRepo = cache.NewMatchRepository(matchRepo, readCache)
		playerRepo = cache.NewPlayerRepository(playerRepo, readCache)
		logger.Info("read cache enabled", "ttl", cfg.CacheTTL.String())
	}

	return &Services{
		Match:  usecase.NewMatchService(matchRepo, playerRepo, provider, logger),
		Player: usecase.NewPlayerService(playerRepo, store.stats),
		Sync: usecase.NewSyncService(matchRepo, playerRepo, store.stats, provider,
			usecase.SyncConfig{MaxWorkers: cfg.SyncMaxWorkers},
			logger,
		),
		Health: usecase.NewHealthService(store.pinger, time.Now()),
		close:  store.close,
	}, nil
}

func (s *Services) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

func NewHTTPServer(cfg config.Config, services *Services, logger *logging.Logger) (*http.Server, error) {
	if services == nil {
		return nil, fmt.Errorf("services cannot be nil")
	}

	handler := httpapi.NewHandler(services.Match, services.Player, services.Sync, services.Health, logger)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		APIPrefix:          cfg.APIPrefix,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:             logger,
		IDGenerator:        id.NewUUIDGenerator(),
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
