package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordRequest(t *testing.T) {
	m := NewMetrics("test")

	m.RecordRequest(http.MethodGet, "/greeting", http.StatusOK, 5*time.Millisecond)
	m.RecordRequest(http.MethodGet, "/greeting", http.StatusOK, 5*time.Millisecond)
	m.RecordRequest(http.MethodPost, "/echo", http.StatusNotAcceptable, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/greeting", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestsTotal.WithLabelValues("POST", "/echo", "406")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.requestDuration))
}

func TestMetrics_ActiveRequests(t *testing.T) {
	m := NewMetrics("")

	m.IncrementActiveRequests()
	m.IncrementActiveRequests()
	m.DecrementActiveRequests()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.activeRequests))
}

func TestMetrics_RecordReload(t *testing.T) {
	m := NewMetrics("test")

	m.RecordReload(true)
	m.RecordReload(false)
	m.RecordReload(false)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.reloadsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.reloadsTotal.WithLabelValues("error")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics("test")
	m.SetBuildInfo("1.0.0", "abc", "now")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test_build_info{build_time="now",commit="abc",version="1.0.0"} 1`)
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a := NewMetrics("test")
	b := NewMetrics("test")
	assert.NotSame(t, a.Registry(), b.Registry())
}
