package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/match-center/internal/platform/id"
	"github.com/riskibarqy/match-center/internal/platform/logging"
)

const defaultAPIPrefix = "/api"

type RouterConfig struct {
	APIPrefix          string
	CORSAllowedOrigins []string
	Logger             *logging.Logger
	IDGenerator        id.Generator
}

func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	generator := cfg.IDGenerator
	if generator == nil {
		generator = id.NewUUIDGenerator()
	}

	mux := http.NewServeMux()
	prefix := normalizePrefix(cfg.APIPrefix)
	registerHealthRoutes(mux, handler, prefix)
	registerMatchRoutes(mux, handler, prefix)
	registerSyncRoutes(mux, handler, prefix)
	registerPlayerRoutes(mux, handler, prefix)

	return RequestTracing(
		RequestID(generator, logger,
			RequestLogging(logger,
				CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux)),
			),
		),
	)
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return defaultAPIPrefix
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
