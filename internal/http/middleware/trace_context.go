package middleware

import (
	"encoding/hex"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/daleyoon76/saas-idea-generator/internal/platform/ctxutil"
)

const (
	HeaderTraceID   = "X-Trace-Id"
	HeaderRequestID = "X-Request-Id"

	maxRequestIDLen = 128
)

// AttachTraceContext gives every request a request id and a trace id, echoes
// both as response headers and stores them for handlers and the request log.
// A caller-supplied request id is kept when it is short and printable. The
// trace id comes from the active span when tracing is on, then from a
// well-formed X-Trace-Id, and is generated otherwise.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if !validRequestID(reqID) {
			reqID = uuid.NewString()
		}

		var traceID string
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			traceID = sc.TraceID().String()
		} else if h := strings.ToLower(strings.TrimSpace(c.GetHeader(HeaderTraceID))); validTraceID(h) {
			traceID = h
		} else {
			id := uuid.New()
			traceID = hex.EncodeToString(id[:])
		}

		c.Request = c.Request.WithContext(ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		}))
		c.Header(HeaderRequestID, reqID)
		c.Header(HeaderTraceID, traceID)
		c.Next()
	}
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == '.', r == ':':
		default:
			return false
		}
	}
	return true
}

// validTraceID accepts the 32 hex digit W3C form, all-zero excluded.
func validTraceID(id string) bool {
	if len(id) != 32 {
		return false
	}
	b, err := hex.DecodeString(id)
	if err != nil {
		return false
	}
	var tid trace.TraceID
	copy(tid[:], b)
	return tid.IsValid()
}
