package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"cleaning-hub/pkg/utils"

	"go.uber.org/zap"
)

// Counter is a fixed-window counter store; *cache.Client satisfies it.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit allows limit requests per client IP per window. Counter errors
// let the request through.
func RateLimit(counter Counter, limit int, window time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ratelimit:" + r.URL.Path + ":" + clientIP(r)

			count, err := counter.Incr(r.Context(), key, window)
			if err != nil {
				logger.Warn("Rate limiter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(limit) {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				utils.ResponseTooManyRequests(w, "Too many requests, please try again later")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP expects chi's RealIP to have normalised RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
