// Package middleware carries the HTTP middleware chain: request ids,
// logging, panic recovery and rate limiting.
package middleware

import "net/http"

// Chain applies middlewares so the first listed runs outermost.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
