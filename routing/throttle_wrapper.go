package routing

import (
	"net/http"
	"time"

	"github.com/zeptools/gw-invoice/requests"
	"github.com/zeptools/gw-invoice/responses"
	"github.com/zeptools/gw-invoice/throttle"
)

// ThrottleWrapper answers 429 once the caller's bucket in Group is empty.
// Key defaults to the authenticated user, then the client IP.
type ThrottleWrapper struct {
	Store *throttle.BucketStore[string]
	Group string
	Key   func(r *http.Request) string
	Now   func() time.Time
}

func ByClientIP(r *http.Request) string {
	return "ip:" + requests.GetClientIP(r)
}

func ByUserOrIP(r *http.Request) string {
	if id := UserID(r.Context()); id != "" {
		return "user:" + id
	}
	return ByClientIP(r)
}

func (t ThrottleWrapper) Wrap(inner http.Handler) http.Handler {
	key := t.Key
	if key == nil {
		key = ByUserOrIP
	}
	now := t.Now
	if now == nil {
		now = time.Now
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t.Store != nil && !t.Store.Allow(t.Group, key(r), now()) {
			w.Header().Set("Retry-After", "1")
			responses.WriteSimpleErrorJSON(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		inner.ServeHTTP(w, r)
	})
}
