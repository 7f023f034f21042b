package app

import (
	"fmt"

	"github.com/daleyoon76/saas-idea-generator/internal/clients/ollama"
	"github.com/daleyoon76/saas-idea-generator/internal/clients/redis"
	"github.com/daleyoon76/saas-idea-generator/internal/clients/tavily"
	"github.com/daleyoon76/saas-idea-generator/internal/clients/trends"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

type Clients struct {
	Ollama ollama.Client
	Tavily tavily.Client
	Trends trends.Client
	Cache  redis.Cache
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	llm, err := ollama.New(log, cfg.ollamaConfig())
	if err != nil {
		return Clients{}, fmt.Errorf("init ollama: %w", err)
	}
	search := tavily.New(log, cfg.tavilyConfig())
	if !search.Configured() {
		log.Warn("TAVILY_API_KEY not set, web search disabled")
	}
	cache, err := redis.NewCache(log, cfg.redisConfig())
	if err != nil {
		return Clients{}, fmt.Errorf("init redis: %w", err)
	}
	return Clients{
		Ollama: llm,
		Tavily: search,
		Trends: trends.New(log, cfg.trendsConfig()),
		Cache:  cache,
	}, nil
}

func (c Clients) Close() error {
	if c.Cache == nil {
		return nil
	}
	return c.Cache.Close()
}
