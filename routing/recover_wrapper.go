package routing

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/responses"
)

// RecoverWrapper turns a handler panic into a 500 JSON error
func RecoverWrapper(log *zap.Logger) HandlerWrapper {
	return HandlerWrapperFunc(func(inner http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.Error("handler panic recovered", zap.Any("panic", rec), zap.String("path", r.URL.Path), zap.Stack("stack"))
					responses.WriteSimpleErrorJSON(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			inner.ServeHTTP(w, r)
		})
	})
}
