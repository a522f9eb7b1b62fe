package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"reviewlens-gateway/internal/metrics"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/70.0.3538.102 Safari/537.36 Edge/18.19582"

// maxBody bounds how much of the autocomplete response is read.
const maxBody = 1 << 20

// ErrThrottled marks a lookup skipped by the local rate limiter.
var ErrThrottled = errors.New("suggest: throttled")

// Result is the outcome of a suggestion lookup. A non-nil Err means the
// lookup failed and Suggestions is empty because of it, not because the
// upstream had nothing to offer.
type Result struct {
	Query       string
	Suggestions []string
	Err         error
}

// Degraded reports whether the lookup failed.
func (r Result) Degraded() bool {
	return r.Err != nil
}

type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64 // 0 disables local throttling
	Burst         int
	HTTPClient    *http.Client
}

// Client queries a Google-style autocomplete endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://google.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = int(cfg.RatePerSecond) + 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger.Named("suggest"),
	}
}

// Suggest returns autocomplete suggestions for query with query itself
// first. It never fails: any error is reported through Result.Err with an
// empty suggestion list. A blank query returns an empty, non-degraded result
// without calling upstream.
func (c *Client) Suggest(ctx context.Context, query string) Result {
	if strings.TrimSpace(query) == "" {
		return Result{Query: query, Suggestions: []string{}}
	}

	if c.limiter != nil && !c.limiter.Allow() {
		return c.degrade(query, ErrThrottled)
	}

	list, err := c.fetch(ctx, query)
	if err != nil {
		return c.degrade(query, err)
	}

	metrics.SuggestionsTotal.WithLabelValues("ok").Inc()

	out := make([]string, 0, len(list)+1)
	out = append(out, query)
	out = append(out, list...)
	return Result{Query: query, Suggestions: out}
}

func (c *Client) degrade(query string, err error) Result {
	metrics.SuggestionsTotal.WithLabelValues("degraded").Inc()
	c.logger.Warn("suggestion lookup degraded",
		zap.String("query", query),
		zap.Error(err),
	)
	return Result{Query: query, Suggestions: []string{}, Err: err}
}

func (c *Client) fetch(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("client", "chrome")
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/complete/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("suggest: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("suggest: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggest: upstream status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("suggest: read body: %w", err)
	}

	return parseSuggestions(body)
}

// parseSuggestions extracts element 1 of the autocomplete array:
// ["query", ["s1", "s2", ...], ...].
func parseSuggestions(body []byte) ([]string, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(body, &parts); err != nil {
		return nil, fmt.Errorf("suggest: decode: %w", err)
	}
	if len(parts) < 2 {
		return nil, fmt.Errorf("suggest: expected at least 2 elements, got %d", len(parts))
	}

	var list []string
	if err := json.Unmarshal(parts[1], &list); err != nil {
		return nil, fmt.Errorf("suggest: decode suggestions: %w", err)
	}
	if list == nil {
		return nil, errors.New("suggest: suggestions list is null")
	}
	return list, nil
}
