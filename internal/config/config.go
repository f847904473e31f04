package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/match-center/internal/platform/logging"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	DefaultEasyCoachBaseURL = "https://ifa.easycoach.club/en/api/v3/analytics"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                         string
	ServiceName                    string
	ServiceVersion                 string
	HTTPAddr                       string
	APIPrefix                      string
	DBURL                          string
	DBApplicationName              string
	StorageDriver                  string
	CacheEnabled                   bool
	CacheTTL                       time.Duration
	CORSAllowedOrigins             []string
	ReadTimeout                    time.Duration
	WriteTimeout                   time.Duration
	PprofEnabled                   bool
	PprofAddr                      string
	UptraceEnabled                 bool
	UptraceDSN                     string
	UptraceLogsEnabled             bool
	PyroscopeEnabled               bool
	PyroscopeServerAddress         string
	PyroscopeAppName               string
	PyroscopeAuthToken             string
	PyroscopeBasicAuthUser         string
	PyroscopeBasicAuthPassword     string
	PyroscopeUploadRate            time.Duration
	EasyCoachBaseURL               string
	EasyCoachToken                 string
	EasyCoachTokenInQuery          bool
	EasyCoachTimeout               time.Duration
	EasyCoachMaxRetries            int
	EasyCoachCircuitEnabled        bool
	EasyCoachCircuitFailureCount   int
	EasyCoachCircuitOpenTimeout    time.Duration
	EasyCoachCircuitHalfOpenMaxReq int
	SyncMaxWorkers                 int
	LogLevel                       logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	easyCoachTimeout, err := time.ParseDuration(getEnv("EASYCOACH_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse EASYCOACH_TIMEOUT: %w", err)
	}
	if easyCoachTimeout <= 0 {
		return Config{}, fmt.Errorf("EASYCOACH_TIMEOUT must be > 0")
	}
	easyCoachMaxRetries, err := getEnvAsInt("EASYCOACH_MAX_RETRIES", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse EASYCOACH_MAX_RETRIES: %w", err)
	}
	if easyCoachMaxRetries < 0 {
		return Config{}, fmt.Errorf("EASYCOACH_MAX_RETRIES must be >= 0")
	}
	easyCoachTokenInQuery, err := strconv.ParseBool(getEnv("EASYCOACH_TOKEN_IN_QUERY", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse EASYCOACH_TOKEN_IN_QUERY: %w", err)
	}
	easyCoachCircuitEnabled, err := strconv.ParseBool(getEnv("EASYCOACH_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse EASYCOACH_CIRCUIT_ENABLED: %w", err)
	}
	easyCoachCircuitFailureCount, err := getEnvAsInt("EASYCOACH_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse EASYCOACH_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if easyCoachCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("EASYCOACH_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	easyCoachCircuitOpenTimeout, err := time.ParseDuration(getEnv("EASYCOACH_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse EASYCOACH_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if easyCoachCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("EASYCOACH_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	easyCoachCircuitHalfOpenMaxReq, err := getEnvAsInt("EASYCOACH_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse EASYCOACH_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if easyCoachCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("EASYCOACH_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	easyCoachBaseURL := strings.TrimRight(strings.TrimSpace(getEnv("API_BASE_URL", DefaultEasyCoachBaseURL)), "/")
	if _, err := url.ParseRequestURI(easyCoachBaseURL); err != nil {
		return Config{}, fmt.Errorf("parse API_BASE_URL: %w", err)
	}

	syncMaxWorkers, err := getEnvAsInt("SYNC_MAX_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_MAX_WORKERS: %w", err)
	}
	if syncMaxWorkers < 1 {
		return Config{}, fmt.Errorf("SYNC_MAX_WORKERS must be >= 1")
	}

	storageDriver := strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageDriverPostgres)))
	switch storageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", storageDriver, StorageDriverPostgres, StorageDriverMemory)
	}

	httpAddr, err := resolveHTTPAddr()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                         appEnv,
		ServiceName:                    getEnv("APP_SERVICE_NAME", "match-center-api"),
		ServiceVersion:                 getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                       httpAddr,
		APIPrefix:                      normalizePrefix(getEnv("API_PREFIX", "/api")),
		DBURL:                          ResolveDatabaseURL(),
		StorageDriver:                  storageDriver,
		CORSAllowedOrigins:             splitCSV(getEnv("FRONTEND_URL", "http://localhost:5173")),
		PprofEnabled:                   pprofEnabled,
		PprofAddr:                      pprofAddr,
		UptraceEnabled:                 uptraceEnabled,
		UptraceDSN:                     uptraceDSN,
		UptraceLogsEnabled:             uptraceLogsEnabled,
		PyroscopeEnabled:               pyroscopeEnabled,
		PyroscopeServerAddress:         pyroscopeServerAddress,
		PyroscopeAuthToken:             strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:         strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:            pyroscopeUploadRate,
		EasyCoachBaseURL:               easyCoachBaseURL,
		EasyCoachToken:                 strings.TrimSpace(getEnv("API_TOKEN", "")),
		EasyCoachTokenInQuery:          easyCoachTokenInQuery,
		EasyCoachTimeout:               easyCoachTimeout,
		EasyCoachMaxRetries:            easyCoachMaxRetries,
		EasyCoachCircuitEnabled:        easyCoachCircuitEnabled,
		EasyCoachCircuitFailureCount:   easyCoachCircuitFailureCount,
		EasyCoachCircuitOpenTimeout:    easyCoachCircuitOpenTimeout,
		EasyCoachCircuitHalfOpenMaxReq: easyCoachCircuitHalfOpenMaxReq,
		SyncMaxWorkers:                 syncMaxWorkers,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("FRONTEND_URL cannot be empty")
	}

	cfg.DBApplicationName = strings.TrimSpace(getEnv("DB_APPLICATION_NAME", cfg.ServiceName))

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := parseSecondsOrDuration(getEnv("CACHE_TTL", "1800"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	// Sync and enrich run inside the request, so writes get a longer budget.
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "120s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.LogLevel = logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))

	return cfg, nil
}

// ResolveDatabaseURL prefers DATABASE_URL, then DB_URL, then a DSN built from
// the discrete DATABASE_* variables.
func ResolveDatabaseURL() string {
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv("DB_URL")); v != "" {
		return v
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(getEnv("DATABASE_USER", "postgres"), getEnv("DATABASE_PASSWORD", "postgres")),
		Host:     net.JoinHostPort(getEnv("DATABASE_HOST", "localhost"), getEnv("DATABASE_PORT", "5432")),
		Path:     "/" + getEnv("DATABASE_NAME", "match_center"),
		RawQuery: "sslmode=" + getEnv("DATABASE_SSLMODE", "disable"),
	}
	return u.String()
}

func resolveHTTPAddr() (string, error) {
	if addr := strings.TrimSpace(os.Getenv("APP_HTTP_ADDR")); addr != "" {
		return addr, nil
	}
	port := strings.TrimSpace(getEnv("PORT", "3000"))
	n, err := strconv.Atoi(port)
	if err != nil {
		return "", fmt.Errorf("parse PORT: %w", err)
	}
	if n <= 0 || n > 65535 {
		return "", fmt.Errorf("PORT must be between 1 and 65535")
	}
	return ":" + port, nil
}

// parseSecondsOrDuration reads a bare integer as seconds and anything else as a Go duration.
func parseSecondsOrDuration(raw string) (time.Duration, error) {
	value := strings.TrimSpace(raw)
	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(value)
}

func normalizePrefix(v string) string {
	value := "/" + strings.Trim(strings.TrimSpace(v), "/")
	if value == "/" {
		return ""
	}
	return value
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimRight(strings.TrimSpace(part), "/")
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	case "development":
		return EnvDev, nil
	case "production":
		return EnvProd, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
