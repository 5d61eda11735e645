package routing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/metrics"
	"github.com/zeptools/gw-invoice/throttle"
)

type stubVerifier map[string]string

func (s stubVerifier) Verify(token string) (string, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", errors.New("bad token")
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(UserID(r.Context())))
}

// tag appends its name to X-Trace on the way in
func tag(name string) HandlerWrapper {
	return HandlerWrapperFunc(func(inner http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Trace", name)
			inner.ServeHTTP(w, r)
		})
	})
}

func TestGroupPrefixAndWrapperOrder(t *testing.T) {
	router := &BaseRouter{ServeMux: http.NewServeMux()}
	router.Group("/api", func(api *RouteGroup) {
		api.Group("/things", func(things *RouteGroup) {
			things.HandleFunc("GET /{id}", func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(r.PathValue("id")))
			}, tag("route"))
		}, tag("sub"))
	}, tag("group"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/things/42", nil))
	assert.Equal(t, "42", rec.Body.String())
	assert.Equal(t, []string{"group", "sub", "route"}, rec.Header().Values("X-Trace"))
}

func TestGroupRejectsDoubleSlash(t *testing.T) {
	router := &BaseRouter{ServeMux: http.NewServeMux()}
	assert.Panics(t, func() {
		router.Group("/api/", func(g *RouteGroup) { g.HandleFunc("GET /x", whoAmI) })
	})
}

func TestAuthWrapper(t *testing.T) {
	h := AuthWrapper{Verifier: stubVerifier{"good": "u1"}}.Wrap(http.HandlerFunc(whoAmI))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not authenticated")

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")

	req.Header.Set("Authorization", "Bearer good")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "u1", rec.Body.String())

	// query tokens only when enabled
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/?token=good", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	q := AuthWrapper{Verifier: stubVerifier{"good": "u1"}, QueryToken: true}.Wrap(http.HandlerFunc(whoAmI))
	rec = httptest.NewRecorder()
	q.ServeHTTP(rec, httptest.NewRequest("GET", "/?token=good", nil))
	assert.Equal(t, "u1", rec.Body.String())
	rec = httptest.NewRecorder()
	q.ServeHTTP(rec, httptest.NewRequest("GET", "/?token=bad", nil))
	assert.Contains(t, rec.Body.String(), "Invalid token in query")
}

func TestThrottleWrapper(t *testing.T) {
	store := throttle.NewBucketStore[string](context.Background(), nil, time.Minute, time.Hour)
	store.SetBucketGroup("auth", &throttle.BucketConf{Burst: 1, Increment: 1, Period: time.Hour})
	now := time.Unix(0, 0)
	h := ThrottleWrapper{Store: store, Group: "auth", Key: ByClientIP, Now: func() time.Time { return now }}.
		Wrap(http.HandlerFunc(whoAmI))

	req := httptest.NewRequest("POST", "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestRecoverWrapper(t *testing.T) {
	h := RecoverWrapper(zap.NewNop()).Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
}

func TestMetricsWrapperUsesPattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTP(reg, metrics.Config{Namespace: "t"})
	mux := http.NewServeMux()
	mux.HandleFunc("GET /items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := MetricsWrapper(m).Wrap(mux)

	for _, id := range []string{"1", "2"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/items/"+id, nil))
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/nowhere", nil))

	expected := `
# HELP t_http_requests_total HTTP requests by route and status code.
# TYPE t_http_requests_total counter
t_http_requests_total{route="GET /items/{id}",status_code="418"} 2
t_http_requests_total{route="unmatched",status_code="404"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "t_http_requests_total"))
}
