package tavily

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/daleyoon76/saas-idea-generator/internal/clients/upstream"
	"github.com/daleyoon76/saas-idea-generator/internal/observability"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/breaker"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

const (
	Provider       = "tavily"
	DefaultBaseURL = "https://api.tavily.com"
)

var ErrNotConfigured = errors.New("tavily: api key not configured")

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type SearchRequest struct {
	Query             string   `json:"query"`
	SearchDepth       string   `json:"search_depth,omitempty"`
	Topic             string   `json:"topic,omitempty"`
	MaxResults        int      `json:"max_results,omitempty"`
	IncludeAnswer     bool     `json:"include_answer,omitempty"`
	IncludeDomains    []string `json:"include_domains,omitempty"`
	ExcludeDomains    []string `json:"exclude_domains,omitempty"`
	IncludeRawContent bool     `json:"include_raw_content,omitempty"`
}

type Result struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

type SearchResponse struct {
	Query        string   `json:"query"`
	Answer       string   `json:"answer,omitempty"`
	Results      []Result `json:"results"`
	ResponseTime float64  `json:"response_time,omitempty"`
}

type searchBody struct {
	APIKey string `json:"api_key"`
	SearchRequest
}

type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	Configured() bool
}

type client struct {
	log     *logger.Logger
	http    *upstream.Client
	breaker *breaker.Breaker
	apiKey  string
	timeout time.Duration
}

func New(log *logger.Logger, cfg Config) Client {
	return NewWithHTTPClient(log, cfg, nil)
}

func NewWithHTTPClient(log *logger.Logger, cfg Config, httpClient *http.Client) Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	clientLog := log.With("client", "TavilyClient")
	return &client{
		log:     clientLog,
		http:    upstream.NewClient(Provider, baseURL, nil, httpClient),
		breaker: breaker.New(breaker.DefaultConfig(Provider), clientLog, func(err error) bool { return err == nil || upstream.IsClientError(err) }),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		timeout: timeout,
	}
}

func (c *client) Configured() bool { return c.apiKey != "" }

func (c *client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return nil, errors.New("tavily: query required")
	}
	if req.SearchDepth == "" {
		req.SearchDepth = "basic"
	}
	if req.MaxResults <= 0 {
		req.MaxResults = 5
	}

	start := time.Now()
	out, err := breaker.Do(c.breaker, func() (*SearchResponse, error) {
		var resp SearchResponse
		if err := c.http.DoJSON(ctx, c.timeout, http.MethodPost, "/search", searchBody{APIKey: c.apiKey, SearchRequest: req}, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	})
	observability.Current().ObserveUpstream(Provider, "search", err, time.Since(start))
	if err != nil {
		c.log.Warn("Tavily search failed", "query", req.Query, "error", err)
		return nil, err
	}
	if out.Results == nil {
		out.Results = []Result{}
	}
	return out, nil
}
