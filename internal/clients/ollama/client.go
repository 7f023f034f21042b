package ollama

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

const Provider = "ollama"

type Config struct {
	BaseURL     string
	Model       string
	Timeout     time.Duration
	PingTimeout time.Duration
}

type GenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Format  string         `json:"format,omitempty"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type GenerateResponse struct {
	Model              string `json:"model"`
	Response           string `json:"response"`
	Done               bool   `json:"done"`
	PromptEvalCount    int    `json:"prompt_eval_count,omitempty"`
	EvalCount          int    `json:"eval_count,omitempty"`
	TotalDurationNanos int64  `json:"total_duration,omitempty"`
}

type Model struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

type tagsResponse struct {
	Models []Model `json:"models"`
}

type Client interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
	Tags(ctx context.Context) ([]Model, error)
	Ping(ctx context.Context) error
	DefaultModel() string
}

type client struct {
	log     *logger.Logger
	http    *upstream.Client
	breaker *breaker.Breaker
	cfg     Config
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	return NewWithHTTPClient(log, cfg, nil)
}

// NewWithHTTPClient lets tests swap the transport.
func NewWithHTTPClient(log *logger.Logger, cfg Config, httpClient *http.Client) (Client, error) {
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		return nil, errors.New("ollama: base url required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("ollama: model required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = 3 * time.Second
	}
	clientLog := log.With("client", "OllamaClient")
	return &client{
		log:     clientLog,
		http:    upstream.NewClient(Provider, cfg.BaseURL, nil, httpClient),
		breaker: breaker.New(breaker.DefaultConfig(Provider), clientLog, isSuccessful),
		cfg:     cfg,
	}, nil
}

func isSuccessful(err error) bool {
	return err == nil || upstream.IsClientError(err) || errors.Is(err, context.Canceled)
}

func (c *client) DefaultModel() string { return c.cfg.Model }

// Generate runs one non-streaming completion.
func (c *client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if strings.TrimSpace(req.Model) == "" {
		req.Model = c.cfg.Model
	}
	req.Stream = false

	start := time.Now()
	out, err := breaker.Do(c.breaker, func() (*GenerateResponse, error) {
		var resp GenerateResponse
		if err := c.http.DoJSON(ctx, c.cfg.Timeout, http.MethodPost, "/api/generate", req, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	})
	observability.Current().ObserveUpstream(Provider, "generate", err, time.Since(start))
	if err != nil {
		c.log.Warn("Ollama generate failed", "model", req.Model, "error", err)
		return nil, err
	}
	return out, nil
}

func (c *client) Tags(ctx context.Context) ([]Model, error) {
	return c.tags(ctx, c.cfg.Timeout)
}

// Ping checks reachability with the short ping deadline.
func (c *client) Ping(ctx context.Context) error {
	_, err := c.tags(ctx, c.cfg.PingTimeout)
	return err
}

func (c *client) tags(ctx context.Context, timeout time.Duration) ([]Model, error) {
	start := time.Now()
	var resp tagsResponse
	err := c.http.DoJSON(ctx, timeout, http.MethodGet, "/api/tags", nil, &resp)
	observability.Current().ObserveUpstream(Provider, "tags", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	if resp.Models == nil {
		resp.Models = []Model{}
	}
	return resp.Models, nil
}
