package middlewares

import "net/http"

// Middleware decorates an http.Handler
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares from left to right.
// Chain(h, A, B, C) runs: A -> B -> C -> h
// A is the first to intercept the request and the last to see the response.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	// Apply in reverse so the first in the list ends up outermost
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// ChainFunc is a helper to chain middlewares onto an http.HandlerFunc
func ChainFunc(hf http.HandlerFunc, mws ...Middleware) http.Handler {
	return Chain(hf, mws...)
}
