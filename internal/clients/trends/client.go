package trends

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/daleyoon76/saas-idea-generator/internal/clients/upstream"
	"github.com/daleyoon76/saas-idea-generator/internal/observability"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/breaker"
	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

const (
	Provider         = "trends"
	DefaultBaseURL   = "https://trends.google.com"
	DefaultTimeframe = "today 12-m"
	timeseriesWidget = "TIMESERIES"
)

var ErrNoTimeseries = errors.New("trends: explore response has no timeseries widget")

type Config struct {
	BaseURL   string
	Geo       string
	Timeframe string
	Language  string
	Timeout   time.Duration
}

type Query struct {
	Keyword   string
	Geo       string
	Timeframe string
}

type Client interface {
	Interest(ctx context.Context, q Query) (*Interest, error)
}

type client struct {
	log     *logger.Logger
	http    *upstream.Client
	breaker *breaker.Breaker
	cfg     Config
}

func New(log *logger.Logger, cfg Config) Client {
	jar, _ := cookiejar.New(nil)
	return NewWithHTTPClient(log, cfg, &http.Client{Transport: upstream.DefaultTransport(), Jar: jar})
}

func NewWithHTTPClient(log *logger.Logger, cfg Config, httpClient *http.Client) Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(cfg.Timeframe) == "" {
		cfg.Timeframe = DefaultTimeframe
	}
	if strings.TrimSpace(cfg.Language) == "" {
		cfg.Language = "ko"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	clientLog := log.With("client", "TrendsClient")
	return &client{
		log:     clientLog,
		http:    upstream.NewClient(Provider, cfg.BaseURL, map[string]string{"User-Agent": "Mozilla/5.0 (compatible; ideaforge)"}, httpClient),
		breaker: breaker.New(breaker.DefaultConfig(Provider), clientLog, func(err error) bool { return err == nil || upstream.IsClientError(err) }),
		cfg:     cfg,
	}
}

type comparisonItem struct {
	Keyword string `json:"keyword"`
	Geo     string `json:"geo"`
	Time    string `json:"time"`
}

type exploreRequest struct {
	ComparisonItem []comparisonItem `json:"comparisonItem"`
	Category       int              `json:"category"`
	Property       string           `json:"property"`
}

type exploreResponse struct {
	Widgets []struct {
		ID      string          `json:"id"`
		Token   string          `json:"token"`
		Request json.RawMessage `json:"request"`
	} `json:"widgets"`
}

type multilineResponse struct {
	Default struct {
		TimelineData []struct {
			Time          string `json:"time"`
			FormattedTime string `json:"formattedTime"`
			Value         []int  `json:"value"`
			HasData       []bool `json:"hasData"`
			IsPartial     bool   `json:"isPartial"`
		} `json:"timelineData"`
	} `json:"default"`
}

// Interest fetches interest over time for one keyword: the explore call hands
// out a widget token, the multiline call returns the series.
func (c *client) Interest(ctx context.Context, q Query) (*Interest, error) {
	keyword := strings.TrimSpace(q.Keyword)
	if keyword == "" {
		return nil, errors.New("trends: keyword required")
	}
	geo := strings.ToUpper(strings.TrimSpace(q.Geo))
	if geo == "" {
		geo = strings.ToUpper(strings.TrimSpace(c.cfg.Geo))
	}
	timeframe := strings.TrimSpace(q.Timeframe)
	if timeframe == "" {
		timeframe = c.cfg.Timeframe
	}

	start := time.Now()
	points, err := breaker.Do(c.breaker, func() ([]Point, error) {
		return c.fetch(ctx, keyword, geo, timeframe)
	})
	observability.Current().ObserveUpstream(Provider, "interest", err, time.Since(start))
	if err != nil {
		c.log.Warn("Trends lookup failed", "keyword", keyword, "geo", geo, "error", err)
		return nil, err
	}
	return Summarize(keyword, geo, timeframe, points), nil
}

func (c *client) fetch(ctx context.Context, keyword, geo, timeframe string) ([]Point, error) {
	exploreReq, err := json.Marshal(exploreRequest{
		ComparisonItem: []comparisonItem{{Keyword: keyword, Geo: geo, Time: timeframe}},
	})
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("hl", c.cfg.Language)
	params.Set("tz", "-540")
	params.Set("req", string(exploreReq))

	raw, err := c.http.Do(ctx, c.cfg.Timeout, http.MethodGet, "/trends/api/explore?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("explore: %w", err)
	}
	var explore exploreResponse
	if err := json.Unmarshal(StripXSSI(raw), &explore); err != nil {
		return nil, fmt.Errorf("decode explore: %w", err)
	}

	var token string
	var widgetReq json.RawMessage
	for _, w := range explore.Widgets {
		if w.ID == timeseriesWidget {
			token, widgetReq = w.Token, w.Request
			break
		}
	}
	if token == "" || len(widgetReq) == 0 {
		return nil, ErrNoTimeseries
	}

	params = url.Values{}
	params.Set("hl", c.cfg.Language)
	params.Set("tz", "-540")
	params.Set("req", string(widgetReq))
	params.Set("token", token)
	raw, err = c.http.Do(ctx, c.cfg.Timeout, http.MethodGet, "/trends/api/widgetdata/multiline?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("multiline: %w", err)
	}
	var series multilineResponse
	if err := json.Unmarshal(StripXSSI(raw), &series); err != nil {
		return nil, fmt.Errorf("decode multiline: %w", err)
	}

	points := make([]Point, 0, len(series.Default.TimelineData))
	for _, d := range series.Default.TimelineData {
		p := Point{
			Label:     d.FormattedTime,
			IsPartial: d.IsPartial,
			HasData:   len(d.HasData) == 0 || d.HasData[0],
		}
		if sec, err := strconv.ParseInt(d.Time, 10, 64); err == nil {
			p.Time = time.Unix(sec, 0).UTC()
		}
		if len(d.Value) > 0 {
			p.Value = d.Value[0]
		}
		points = append(points, p)
	}
	return points, nil
}

// StripXSSI removes the ")]}'" guard Google prepends to JSON answers.
func StripXSSI(raw []byte) []byte {
	b := bytes.TrimSpace(raw)
	if bytes.HasPrefix(b, []byte(")]}'")) {
		b = b[4:]
		b = bytes.TrimLeft(b, ", \r\n\t")
	}
	return b
}
