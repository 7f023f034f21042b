package services

import (
	"context"
	"sync"

	"github.com/daleyoon76/saas-idea-generator/internal/clients/ollama"
	"github.com/daleyoon76/saas-idea-generator/internal/clients/tavily"
	"github.com/daleyoon76/saas-idea-generator/internal/clients/trends"
)

type fakeLLM struct {
	mu       sync.Mutex
	requests []ollama.GenerateRequest
	response string
	err      error
	pingErr  error
	models   []ollama.Model
}

func (f *fakeLLM) Generate(_ context.Context, req ollama.GenerateRequest) (*ollama.GenerateResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &ollama.GenerateResponse{Model: "gemma2:9b", Response: f.response, Done: true}, nil
}

func (f *fakeLLM) Tags(context.Context) ([]ollama.Model, error) { return f.models, nil }
func (f *fakeLLM) Ping(context.Context) error                   { return f.pingErr }
func (f *fakeLLM) DefaultModel() string                         { return "gemma2:9b" }

type fakeSearch struct {
	calls int
	resp  *tavily.SearchResponse
	err   error
}

func (f *fakeSearch) Configured() bool { return true }

func (f *fakeSearch) Search(_ context.Context, req tavily.SearchRequest) (*tavily.SearchResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := *f.resp
	out.Query = req.Query
	return &out, nil
}

type fakeTrends struct {
	calls int
	resp  *trends.Interest
	err   error
}

func (f *fakeTrends) Interest(_ context.Context, q trends.Query) (*trends.Interest, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := *f.resp
	out.Keyword = q.Keyword
	return &out, nil
}

// memCache is an in-process stand-in for the Redis cache.
type memCache struct {
	mu   sync.Mutex
	data map[string]any
}

func (m *memCache) Get(_ context.Context, key string, out any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return false, nil
	}
	switch dst := out.(type) {
	case *tavily.SearchResponse:
		*dst = *(v.(*tavily.SearchResponse))
	case *trends.Interest:
		*dst = *(v.(*trends.Interest))
	}
	return true, nil
}

func (m *memCache) Set(_ context.Context, key string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string]any{}
	}
	m.data[key] = v
	return nil
}

func (m *memCache) Close() error { return nil }
