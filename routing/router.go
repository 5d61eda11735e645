package routing

import "net/http"

// Router is what the api package mounts its /api routes on.
// Wrappers run outermost first.
type Router interface {
	ServeHTTP(w http.ResponseWriter, r *http.Request)
	Handle(pattern string, handler http.Handler, handlerWrappers ...HandlerWrapper)
	HandleFunc(pattern string, handleFunc func(http.ResponseWriter, *http.Request), handlerWrappers ...HandlerWrapper)
}
