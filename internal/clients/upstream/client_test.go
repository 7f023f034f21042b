package upstream

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func TestDoJSONSendsHeadersAndDecodes(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.String() != "http://upstream/v1/thing" {
			t.Fatalf("url=%s", req.URL.String())
		}
		if got := req.Header.Get("X-Api-Key"); got != "k" {
			t.Fatalf("header=%q", got)
		}
		return respond(http.StatusOK, `{"value":7}`), nil
	})}
	c := NewClient("thing", "http://upstream/", map[string]string{"X-Api-Key": "k"}, hc)

	var out struct {
		Value int `json:"value"`
	}
	if err := c.DoJSON(context.Background(), time.Second, http.MethodPost, "/v1/thing", map[string]string{"a": "b"}, &out); err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if out.Value != 7 {
		t.Fatalf("value=%d", out.Value)
	}
}

func TestDoReturnsHTTPError(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusUnauthorized, "bad key\n"), nil
	})}
	c := NewClient("tavily", "http://upstream", nil, hc)

	_, err := c.Do(context.Background(), 0, http.MethodGet, "/x", nil)
	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.StatusCode != http.StatusUnauthorized || he.Body != "bad key" || he.Provider != "tavily" {
		t.Fatalf("unexpected error: %+v", he)
	}
	if !IsClientError(err) {
		t.Fatalf("401 should be a client error")
	}
	if IsClientError(&HTTPError{StatusCode: http.StatusTooManyRequests}) {
		t.Fatalf("429 should count against the provider")
	}
}

func TestDoCapsSuccessBody(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return respond(http.StatusOK, `{"value":"0123456789"}`), nil
	})}
	c := NewClient("ollama", "http://upstream", nil, hc)
	c.maxBody = 8

	_, err := c.Do(context.Background(), 0, http.MethodGet, "/x", nil)
	if !errors.Is(err, ErrResponseTooLarge) {
		t.Fatalf("expected ErrResponseTooLarge, got %v", err)
	}
	if IsClientError(err) {
		t.Fatalf("oversized answer must count against the provider")
	}

	c.maxBody = 64
	raw, err := c.Do(context.Background(), 0, http.MethodGet, "/x", nil)
	if err != nil || string(raw) != `{"value":"0123456789"}` {
		t.Fatalf("raw=%q err=%v", raw, err)
	}
}
