package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/daleyoon76/saas-idea-generator/internal/platform/ctxutil"
)

var hex32 = regexp.MustCompile(`^[0-9a-f]{32}$`)

func traceRouter(seen **ctxutil.TraceData, pre ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(pre...)
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) {
		*seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAttachTraceContextKeepsCallerIDs(t *testing.T) {
	var seen *ctxutil.TraceData
	r := traceRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "web-7f3a:retry.1")
	req.Header.Set(HeaderTraceID, "4BF92F3577B34DA6A3CE929D0E0E4736")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.NotNil(t, seen)
	assert.Equal(t, "web-7f3a:retry.1", seen.RequestID)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", seen.TraceID)
	assert.Equal(t, seen.RequestID, rec.Header().Get(HeaderRequestID))
	assert.Equal(t, seen.TraceID, rec.Header().Get(HeaderTraceID))
}

func TestAttachTraceContextGeneratesIDs(t *testing.T) {
	cases := map[string]struct{ requestID, traceID string }{
		"absent":    {},
		"malformed": {requestID: "bad id\r\nInjected: 1", traceID: "not-a-trace"},
		"too long":  {requestID: strings.Repeat("a", maxRequestIDLen+1), traceID: strings.Repeat("0", 32)},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var seen *ctxutil.TraceData
			r := traceRouter(&seen)

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tc.requestID != "" {
				req.Header[HeaderRequestID] = []string{tc.requestID}
			}
			if tc.traceID != "" {
				req.Header.Set(HeaderTraceID, tc.traceID)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.NotNil(t, seen)
			assert.NotEqual(t, tc.requestID, seen.RequestID)
			assert.True(t, validRequestID(seen.RequestID), seen.RequestID)
			assert.Regexp(t, hex32, seen.TraceID)
			assert.NotEqual(t, strings.Repeat("0", 32), seen.TraceID)
			assert.Equal(t, seen.RequestID, rec.Header().Get(HeaderRequestID))
			assert.Equal(t, seen.TraceID, rec.Header().Get(HeaderTraceID))
		})
	}
}

func TestAttachTraceContextPrefersActiveSpan(t *testing.T) {
	tid, err := trace.TraceIDFromHex("0af7651916cd43dd8448eb211c80319c")
	require.NoError(t, err)
	sid, err := trace.SpanIDFromHex("b7ad6b7169203331")
	require.NoError(t, err)
	withSpan := func(c *gin.Context) {
		sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: tid, SpanID: sid, TraceFlags: trace.FlagsSampled})
		ctx := trace.ContextWithSpanContext(c.Request.Context(), sc)
		c.Request = c.Request.WithContext(ctx)
	}

	var seen *ctxutil.TraceData
	r := traceRouter(&seen, withSpan)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderTraceID, "4bf92f3577b34da6a3ce929d0e0e4736")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, seen)
	assert.Equal(t, tid.String(), seen.TraceID)
}

func TestLogFieldsCarryIDs(t *testing.T) {
	assert.Nil(t, ctxutil.LogFields(context.Background()))

	ctx := ctxutil.WithTraceData(context.Background(), &ctxutil.TraceData{TraceID: "t1", RequestID: "r1"})
	assert.Equal(t, []interface{}{"request_id", "r1", "trace_id", "t1"}, ctxutil.LogFields(ctx))
}
