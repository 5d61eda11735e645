package routing

import "net/http"

// BaseRouter is a ServeMux that applies HandlerWrappers (auth, throttle,
// metrics, recover) per route.
type BaseRouter struct {
	*http.ServeMux
}

var _ Router = (*BaseRouter)(nil)

// Handle registers pattern ("GET /api/invoices/{id}") with handler wrapped
// so that handlerWrappers[0] sees the request first
func (r *BaseRouter) Handle(pattern string, handler http.Handler, handlerWrappers ...HandlerWrapper) {
	wrapped := handler
	for i := len(handlerWrappers) - 1; i >= 0; i-- {
		wrapped = handlerWrappers[i].Wrap(wrapped)
	}
	r.ServeMux.Handle(pattern, wrapped)
}

func (r *BaseRouter) HandleFunc(pattern string, handleFunc func(http.ResponseWriter, *http.Request), handlerWrappers ...HandlerWrapper) {
	r.Handle(pattern, http.HandlerFunc(handleFunc), handlerWrappers...)
}

// Group mounts a resource (/api/invoices, /api/receipts, ...) whose routes
// share a prefix and wrappers, e.g. RequireAuth and the pdf throttle
func (r *BaseRouter) Group(prefix string, register func(*RouteGroup), handlerWrappers ...HandlerWrapper) *RouteGroup {
	g := &RouteGroup{
		Router:          r,
		Prefix:          prefix,
		HandlerWrappers: handlerWrappers,
	}
	register(g)
	return g
}
