package main

import "net/http"

// The email-flow endpoints are unauthenticated, so the client IP is the
// only usable rate-limit key.
func ipBaseRateLimiterGetter(r *http.Request) string {
	return r.RemoteAddr
}
