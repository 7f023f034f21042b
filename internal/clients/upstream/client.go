package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	maxErrorBody    = 1 << 20
	maxResponseBody = 16 << 20
)

var ErrResponseTooLarge = errors.New("upstream response too large")

// Client is the JSON-over-HTTP transport shared by the provider clients.
type Client struct {
	provider   string
	baseURL    string
	headers    map[string]string
	httpClient *http.Client
	maxBody    int64
}

func NewClient(provider, baseURL string, headers map[string]string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Transport: DefaultTransport()}
	}
	return &Client{
		provider:   provider,
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		headers:    headers,
		httpClient: httpClient,
		maxBody:    maxResponseBody,
	}
}

func DefaultTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// DoJSON encodes body (when non-nil), sends it and decodes a 2xx answer into out.
func (c *Client) DoJSON(ctx context.Context, timeout time.Duration, method, path string, body, out any) error {
	raw, err := c.Do(ctx, timeout, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// Do returns the raw 2xx body. Non-2xx answers become *HTTPError.
func (c *Client) Do(ctx context.Context, timeout time.Duration, method, path string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	ctx2 := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx2, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx2, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &HTTPError{Provider: c.provider, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > c.maxBody {
		return nil, fmt.Errorf("%s: %w", c.provider, ErrResponseTooLarge)
	}
	return raw, nil
}
