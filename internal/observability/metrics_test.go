package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/ideas", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.IncIdeasCreated(3)
	m.IncArtifactSaved("plan")
	m.AddDeleted("idea", 1)
	m.ObserveUpstream("ollama", "generate", nil, time.Second)
	m.IncCache(true)
	assert.Nil(t, m.Registry())
}

func TestCountersAndHandler(t *testing.T) {
	m := New()
	m.IncIdeasCreated(2)
	m.IncArtifactSaved("prd")
	m.AddDeleted("plan", 3)
	m.ObserveUpstream("tavily", "search", errors.New("boom"), 20*time.Millisecond)
	m.ObserveAPI("POST", "/api/plans", "200", 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"ideaforge_ideas_created_total 2",
		`ideaforge_artifacts_saved_total{kind="prd"} 1`,
		`ideaforge_deletes_total{kind="plan"} 3`,
		`ideaforge_upstream_requests_total{operation="search",provider="tavily",status="error"} 1`,
		`ideaforge_http_requests_total{method="POST",route="/api/plans",status="200"} 1`,
	} {
		assert.True(t, strings.Contains(body, want), "missing %q", want)
	}
}
