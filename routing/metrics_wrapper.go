package routing

import (
	"net/http"
	"time"

	"github.com/zeptools/gw-invoice/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	if s.status == 0 {
		s.status = code
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	return s.ResponseWriter.Write(b)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// MetricsWrapper records every request by its matched mux pattern.
// Wrap the whole mux so the pattern is known when the handler returns.
func MetricsWrapper(m *metrics.HTTP) HandlerWrapper {
	return HandlerWrapperFunc(func(inner http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			inner.ServeHTTP(rec, r)
			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			m.Record(r.Pattern, rec.status, time.Since(start))
		})
	})
}
