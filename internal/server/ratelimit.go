package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// clientLimiter tracks a token bucket per client IP. Buckets refill at
// perHour tokens an hour with a burst of perHour, so a fresh client can
// spend its full hourly quota immediately.
type clientLimiter struct {
	mu      sync.Mutex
	perHour int
	clients map[string]*rate.Limiter
}

func newClientLimiter(perHour int) *clientLimiter {
	return &clientLimiter{
		perHour: perHour,
		clients: make(map[string]*rate.Limiter),
	}
}

func (l *clientLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.clients[ip]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Hour/time.Duration(l.perHour)), l.perHour)
		l.clients[ip] = lim
	}
	return lim.Allow()
}

// limit wraps a handler with per-client hourly admission control.
func (l *clientLimiter) limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !l.allow(ip) {
			zap.L().Warn("rate limit exceeded", zap.String("ip", ip), zap.String("path", r.URL.Path))
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"success":    false,
				"message":    "Too many requests - please try again after 1 hour.",
				"retryAfter": "1 hour",
			})
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
