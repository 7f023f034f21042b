package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/daleyoon76/saas-idea-generator/internal/clients/redis"
	"github.com/daleyoon76/saas-idea-generator/internal/clients/tavily"
	"github.com/daleyoon76/saas-idea-generator/internal/clients/trends"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/apierr"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

const maxSearchResults = 10

var ErrSearchNotConfigured = apierr.New(http.StatusServiceUnavailable, "tavily_not_configured", tavily.ErrNotConfigured)

type SearchInput struct {
	Query      string
	MaxResults int
	Depth      string
}

type TrendsInput struct {
	Keyword   string
	Geo       string
	Timeframe string
}

// ResearchResult bundles web search and search-interest data for a keyword.
// A provider that failed leaves its field nil and an entry in Errors.
type ResearchResult struct {
	Keyword string                 `json:"keyword"`
	Search  *tavily.SearchResponse `json:"search,omitempty"`
	Trends  *trends.Interest       `json:"trends,omitempty"`
	Errors  map[string]string      `json:"errors,omitempty"`
}

// Notes renders the result as a compact bullet list for prompts.
func (r *ResearchResult) Notes() string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	if r.Trends != nil && len(r.Trends.Points) > 0 {
		fmt.Fprintf(&b, "- Search interest for %q is %s (average %.1f, peak %d", r.Keyword, r.Trends.Direction, r.Trends.Average, r.Trends.Peak)
		if r.Trends.PeakLabel != "" {
			fmt.Fprintf(&b, " in %s", r.Trends.PeakLabel)
		}
		b.WriteString(")\n")
	}
	if r.Search != nil {
		if a := strings.TrimSpace(r.Search.Answer); a != "" {
			fmt.Fprintf(&b, "- %s\n", a)
		}
		for _, res := range r.Search.Results {
			content := strings.Join(strings.Fields(res.Content), " ")
			if rs := []rune(content); len(rs) > 280 {
				content = string(rs[:280]) + "..."
			}
			fmt.Fprintf(&b, "- %s (%s): %s\n", strings.TrimSpace(res.Title), res.URL, content)
		}
	}
	return strings.TrimSpace(b.String())
}

type ResearchService interface {
	Search(ctx context.Context, in SearchInput) (*tavily.SearchResponse, error)
	Trends(ctx context.Context, in TrendsInput) (*trends.Interest, error)
	Research(ctx context.Context, keyword string) (*ResearchResult, error)
}

type researchService struct {
	log    *logger.Logger
	search tavily.Client
	trends trends.Client
	cache  redis.Cache
}

func NewResearchService(baseLog *logger.Logger, search tavily.Client, trendsClient trends.Client, cache redis.Cache) ResearchService {
	if cache == nil {
		cache = redis.NopCache{}
	}
	return &researchService{
		log:    baseLog.With("service", "ResearchService"),
		search: search,
		trends: trendsClient,
		cache:  cache,
	}
}

func (rs *researchService) Search(ctx context.Context, in SearchInput) (*tavily.SearchResponse, error) {
	in.Query = strings.TrimSpace(in.Query)
	if in.Query == "" {
		return nil, ErrQueryRequired
	}
	if in.MaxResults <= 0 || in.MaxResults > maxSearchResults {
		in.MaxResults = 5
	}
	if in.Depth != "advanced" {
		in.Depth = "basic"
	}

	key := redis.Key("search", in.Query, in.Depth, fmt.Sprint(in.MaxResults))
	var cached tavily.SearchResponse
	if rs.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	out, err := rs.search.Search(ctx, tavily.SearchRequest{
		Query:         in.Query,
		SearchDepth:   in.Depth,
		MaxResults:    in.MaxResults,
		IncludeAnswer: true,
	})
	if err != nil {
		if errors.Is(err, tavily.ErrNotConfigured) {
			return nil, ErrSearchNotConfigured
		}
		return nil, upstreamError(tavily.Provider, err)
	}
	rs.toCache(ctx, key, out)
	return out, nil
}

func (rs *researchService) Trends(ctx context.Context, in TrendsInput) (*trends.Interest, error) {
	in.Keyword = strings.TrimSpace(in.Keyword)
	if in.Keyword == "" {
		return nil, ErrKeywordRequired
	}

	key := redis.Key("trends", in.Keyword, in.Geo, in.Timeframe)
	var cached trends.Interest
	if rs.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	out, err := rs.trends.Interest(ctx, trends.Query{Keyword: in.Keyword, Geo: in.Geo, Timeframe: in.Timeframe})
	if err != nil {
		return nil, upstreamError(trends.Provider, err)
	}
	rs.toCache(ctx, key, out)
	return out, nil
}

// Research queries both providers concurrently. One provider failing is
// reported in the result; only a double failure is an error.
func (rs *researchService) Research(ctx context.Context, keyword string) (*ResearchResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrKeywordRequired
	}
	out := &ResearchResult{Keyword: keyword}

	var mu sync.Mutex
	fail := func(provider string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if out.Errors == nil {
			out.Errors = map[string]string{}
		}
		var ae *apierr.Error
		if errors.As(err, &ae) {
			out.Errors[provider] = ae.Code
		} else {
			out.Errors[provider] = err.Error()
		}
		rs.log.Warn("Research provider failed", "provider", provider, "keyword", keyword, "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := rs.Search(gctx, SearchInput{Query: keyword})
		if err != nil {
			fail(tavily.Provider, err)
			return nil
		}
		out.Search = res
		return nil
	})
	g.Go(func() error {
		res, err := rs.Trends(gctx, TrendsInput{Keyword: keyword})
		if err != nil {
			fail(trends.Provider, err)
			return nil
		}
		out.Trends = res
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if out.Search == nil && out.Trends == nil {
		return nil, apierr.New(http.StatusBadGateway, "research_unavailable", fmt.Errorf("%w: all research providers failed: %v", ErrUpstream, out.Errors))
	}
	return out, nil
}

func (rs *researchService) fromCache(ctx context.Context, key string, out any) bool {
	hit, err := rs.cache.Get(ctx, key, out)
	if err != nil {
		rs.log.Warn("Research cache read failed", "error", err)
		return false
	}
	return hit
}

func (rs *researchService) toCache(ctx context.Context, key string, v any) {
	if err := rs.cache.Set(ctx, key, v); err != nil {
		rs.log.Warn("Research cache write failed", "error", err)
	}
}
