package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRenderCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRender(reg, Config{Namespace: "gw"})

	m.ObserveRender("invoice", OutcomeOK, 3*time.Millisecond)
	m.ObserveRender("invoice", OutcomeOK, time.Millisecond)
	m.ObserveRender("receipt", OutcomeErrorPage, time.Millisecond)
	m.ObserveCache("invoice", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.rendered.WithLabelValues("invoice", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rendered.WithLabelValues("receipt", OutcomeErrorPage)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheHits.WithLabelValues("invoice", "hit")))
}

func TestNilSafe(t *testing.T) {
	var r *Render
	var h *HTTP
	assert.NotPanics(t, func() {
		r.ObserveRender("invoice", OutcomeOK, 0)
		r.ObserveCache("invoice", false)
		h.Record("/", 200, 0)
	})
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewHTTP(reg, Config{})
	h.Record("GET /ping", 200, time.Millisecond)

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rr.Code)
	assert.Contains(t, rr.Body.String(), `http_requests_total{route="GET /ping",status_code="200"} 1`)
}
