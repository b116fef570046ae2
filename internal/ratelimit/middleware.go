package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"
)

// DefaultRetryAfterSeconds is the Retry-After header value sent when a
// rate limit is exceeded.
const DefaultRetryAfterSeconds = 1

// Middleware creates HTTP middleware that enforces per-client rate limits.
// Clients are identified by remote IP (first X-Forwarded-For hop when present).
//
// The middleware returns 429 Too Many Requests when the limit is exceeded,
// with a Retry-After header and X-RateLimit-Remaining set to 0.
func Middleware(limiter *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := ClientIP(r)

			rl := limiter.Get(client)
			if !rl.Allow() {
				w.Header().Set("Retry-After", strconv.Itoa(DefaultRetryAfterSeconds))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte("Too Many Requests"))
				return
			}

			remaining := int(rl.Tokens())
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the client address used as the rate limit key.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if first, _, ok := strings.Cut(fwd, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
