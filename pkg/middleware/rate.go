package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/response"
)

// limiter holds fixed-window counters keyed by client IP. Each Use of
// RateLimit gets its own limiter, so stacking a tight limit on an OTP
// route group does not share state with the global one.
type limiter struct {
	max    int
	window time.Duration

	mu      sync.Mutex
	windows map[string]*clientWindow
}

type clientWindow struct {
	count   int
	resetAt time.Time
}

func (l *limiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[ip]
	if !ok || now.After(w.resetAt) {
		l.windows[ip] = &clientWindow{count: 1, resetAt: now.Add(l.window)}
		return true
	}
	w.count++
	return w.count <= l.max
}

// sweep drops expired windows so the map stays bounded on long uptimes.
func (l *limiter) sweep() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for now := range ticker.C {
		l.mu.Lock()
		for ip, w := range l.windows {
			if now.After(w.resetAt) {
				delete(l.windows, ip)
			}
		}
		l.mu.Unlock()
	}
}

// clientIP prefers the first X-Forwarded-For hop when a proxy sits in
// front, falling back to the socket address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	return r.RemoteAddr
}

// RateLimit limits each client IP to max requests per window and answers
// the overflow with the standard 429 body.
func RateLimit(max int, window time.Duration) func(http.Handler) http.Handler {
	l := &limiter{max: max, window: window, windows: map[string]*clientWindow{}}
	go l.sweep()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientIP(r), time.Now()) {
				response.Error(w, http.StatusTooManyRequests, "Too many requests, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
