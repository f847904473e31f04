package easycoach

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/match-center/internal/platform/logging"
	"github.com/riskibarqy/match-center/internal/platform/resilience"
	"github.com/riskibarqy/match-center/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL = "https://ifa.easycoach.club/en/api/v3/analytics"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

var userTokenParamRegex = regexp.MustCompile(`user_token=[^&\s"']+`)
var errEasyCoachTransient = crerr.New("easycoach transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Token      string
	// TokenInQuery also sends the token as user_token, which older API versions expect.
	TokenInQuery   bool
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads league lists and match details from the EasyCoach analytics API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	token        string
	tokenInQuery bool
	maxRetries   int
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	flight       resilience.Flight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = timeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		logger.Warn("easycoach token is not configured, upstream calls may be rejected")
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		token:        token,
		tokenInQuery: cfg.TokenInQuery,
		maxRetries:   max(cfg.MaxRetries, 0),
		logger:       logger,
		breaker:      resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

func (c *Client) FetchLeagueMatches(ctx context.Context, leagueID, seasonID string) (usecase.LeagueMatches, error) {
	leagueID = strings.TrimSpace(leagueID)
	seasonID = strings.TrimSpace(seasonID)
	if leagueID == "" || seasonID == "" {
		return usecase.LeagueMatches{}, fmt.Errorf("%w: league id and season id are required", usecase.ErrInvalidInput)
	}

	raw, err := c.get(ctx, "/league", url.Values{"league_id": {leagueID}, "season_id": {seasonID}})
	if err != nil {
		return usecase.LeagueMatches{}, fmt.Errorf("fetch league league_id=%s season_id=%s: %w", leagueID, seasonID, err)
	}

	out, err := ParseLeague(raw)
	if err != nil {
		return usecase.LeagueMatches{}, fmt.Errorf("%w: league_id=%s season_id=%s: %v", usecase.ErrDependencyUnavailable, leagueID, seasonID, err)
	}
	if out.Rejected > 0 {
		c.logger.WarnContext(ctx, "easycoach league records without match id",
			"league_id", leagueID,
			"season_id", seasonID,
			"rejected", out.Rejected,
		)
	}
	return out, nil
}

func (c *Client) FetchMatchDetail(ctx context.Context, matchID string) (usecase.ExternalMatchDetail, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return usecase.ExternalMatchDetail{}, fmt.Errorf("%w: match id is required", usecase.ErrInvalidInput)
	}

	raw, err := c.get(ctx, "/match", url.Values{"match_id": {matchID}})
	if err != nil {
		return usecase.ExternalMatchDetail{}, fmt.Errorf("fetch match match_id=%s: %w", matchID, err)
	}

	out, err := ParseMatchDetail(raw)
	if err != nil {
		return usecase.ExternalMatchDetail{}, fmt.Errorf("%w: match_id=%s: %v", usecase.ErrDependencyUnavailable, matchID, err)
	}
	if out.Match.ExternalID == "" {
		out.Match.ExternalID = matchID
	}
	return out, nil
}

// get returns the raw body of a successful call. Concurrent identical calls
// share one upstream request, which is cancelled only when every caller
// waiting on it has gone.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.tokenInQuery && c.token != "" {
		query.Set("user_token", c.token)
	}
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err := c.flight.Do(ctx, fullURL, func(callCtx context.Context) (any, error) {
		var raw []byte
		err := c.breaker.Execute(func() error {
			var reqErr error
			raw, reqErr = c.executeRequest(callCtx, fullURL)
			return reqErr
		}, isTransient)
		return raw, err
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "easycoach circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: match data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return nil, fmt.Errorf("%w: %v", usecase.ErrDependencyUnavailable, err)
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		raw, status, err := c.do(req)
		if err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		switch {
		case err != nil:
			lastErr = crerr.Wrapf(errEasyCoachTransient, "send request: %s", c.sanitize(err.Error()))
		case status >= 200 && status < 300:
			return raw, nil
		case isRetryableStatus(status):
			lastErr = crerr.Wrapf(errEasyCoachTransient, "provider status=%d body=%s", status, abbreviateBody(raw))
		default:
			return nil, fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(raw))
		}

		if attempt == c.maxRetries || ctx.Err() != nil {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "easycoach request failed", "url", redactURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	return append([]byte(nil), buf.B...), resp.StatusCode, nil
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if c.token != "" {
		value = strings.ReplaceAll(value, c.token, "REDACTED")
	}
	return userTokenParamRegex.ReplaceAllString(value, "user_token=REDACTED")
}

func isTransient(err error) bool {
	return crerr.Is(err, errEasyCoachTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func redactURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("user_token") {
		query.Set("user_token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
