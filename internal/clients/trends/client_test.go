package trends

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daleyoon76/saas-idea-generator/internal/platform/logger"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func textResponse(body string) *http.Response {
	return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader([]byte(body)))}
}

func TestStripXSSI(t *testing.T) {
	assert.Equal(t, `{"a":1}`, string(StripXSSI([]byte(")]}'\n{\"a\":1}"))))
	assert.Equal(t, `{"a":1}`, string(StripXSSI([]byte(")]}',\n{\"a\":1}"))))
	assert.Equal(t, `{"a":1}`, string(StripXSSI([]byte(` {"a":1} `))))
}

func TestInterestExploreThenMultiline(t *testing.T) {
	var paths []string
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		paths = append(paths, req.URL.Path)
		switch req.URL.Path {
		case "/trends/api/explore":
			var er exploreRequest
			require.NoError(t, json.Unmarshal([]byte(req.URL.Query().Get("req")), &er))
			require.Len(t, er.ComparisonItem, 1)
			assert.Equal(t, "meal kit", er.ComparisonItem[0].Keyword)
			assert.Equal(t, "KR", er.ComparisonItem[0].Geo)
			return textResponse(`)]}'
{"widgets":[{"id":"RELATED_QUERIES","token":"x","request":{}},{"id":"TIMESERIES","token":"tok-1","request":{"time":"today 12-m"}}]}`), nil
		case "/trends/api/widgetdata/multiline":
			assert.Equal(t, "tok-1", req.URL.Query().Get("token"))
			assert.True(t, strings.Contains(req.URL.Query().Get("req"), "today 12-m"))
			return textResponse(`)]}',
{"default":{"timelineData":[
 {"time":"1700000000","formattedTime":"w1","value":[10],"hasData":[true]},
 {"time":"1700600000","formattedTime":"w2","value":[20],"hasData":[true]},
 {"time":"1701200000","formattedTime":"w3","value":[0],"hasData":[false]},
 {"time":"1701800000","formattedTime":"w4","value":[40],"hasData":[true]},
 {"time":"1702400000","formattedTime":"w5","value":[50],"hasData":[true]},
 {"time":"1703000000","formattedTime":"w6","value":[5],"hasData":[true],"isPartial":true}
]}}`), nil
		}
		t.Fatalf("unexpected path %s", req.URL.Path)
		return nil, nil
	})}

	c := NewWithHTTPClient(logger.NewNop(), Config{BaseURL: "http://trends", Geo: "kr"}, hc)
	out, err := c.Interest(context.Background(), Query{Keyword: "meal kit"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/trends/api/explore", "/trends/api/widgetdata/multiline"}, paths)
	require.Len(t, out.Points, 4)
	assert.Equal(t, 30.0, out.Average)
	assert.Equal(t, 50, out.Peak)
	assert.Equal(t, "w5", out.PeakLabel)
	assert.Equal(t, Rising, out.Direction)
}

func TestInterestWithoutTimeseriesWidget(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return textResponse(`)]}'{"widgets":[]}`), nil
	})}
	c := NewWithHTTPClient(logger.NewNop(), Config{BaseURL: "http://trends"}, hc)
	_, err := c.Interest(context.Background(), Query{Keyword: "x"})
	assert.ErrorIs(t, err, ErrNoTimeseries)
}
