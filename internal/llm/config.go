package llm

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultChatPath = "/v1/chat/completions"

// Config describes an OpenAI-compatible chat completions endpoint.
type Config struct {
	BaseURL      string
	APIKey       string
	Organization string // sent as OpenAI-Organization when set
	ChatPath     string // default /v1/chat/completions

	UpstreamTimeout time.Duration // whole call, retries included (default 120s)
	MaxRetries      int           // extra attempts after the first; 0 disables retry
	BaseBackoff     time.Duration // first retry delay before jitter (default 100ms)

	MaxIdleConnsPerHost int // default 16

	HTTPClient *http.Client // overrides the pooled transport, mainly for tests
}

func (c Config) validate() error {
	if c.BaseURL == "" {
		return errors.New("base url is required")
	}
	if c.APIKey == "" {
		return errors.New("api key is required")
	}
	if !strings.HasPrefix(c.ChatPath, "/") {
		return fmt.Errorf("chat path %q must start with /", c.ChatPath)
	}
	return nil
}

func (c Config) withDefaults() Config {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.ChatPath == "" {
		c.ChatPath = defaultChatPath
	}
	if c.UpstreamTimeout <= 0 {
		c.UpstreamTimeout = 120 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = 100 * time.Millisecond
	}
	if c.MaxIdleConnsPerHost <= 0 {
		c.MaxIdleConnsPerHost = 16
	}
	return c
}

// HTTPClient talks to an OpenAI-compatible chat completions endpoint.
type HTTPClient struct {
	cfg        Config
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) (*HTTPClient, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("llmclient: invalid config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: pooledTransport(cfg.MaxIdleConnsPerHost)}
	}

	return &HTTPClient{
		cfg:        cfg,
		endpoint:   cfg.BaseURL + cfg.ChatPath,
		httpClient: httpClient,
		logger:     logger.Named("llmclient"),
	}, nil
}

// pooledTransport keeps connections to the single provider host warm.
// No client-level timeout is set; calls are bounded by UpstreamTimeout.
func pooledTransport(idlePerHost int) *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          idlePerHost,
		MaxIdleConnsPerHost:   idlePerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
}

// Close drops idle provider connections.
func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Organization != "" {
		req.Header.Set("OpenAI-Organization", c.cfg.Organization)
	}
}
