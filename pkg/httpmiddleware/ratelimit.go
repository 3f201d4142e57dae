package httpmiddleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/jx"
)

// RateLimitConfig configures the per-client sliding window limiter.
type RateLimitConfig struct {
	Max    int
	Window time.Duration
	// KeyFunc identifies the client. Defaults to ClientIP.
	KeyFunc func(*http.Request) string
}

// window counts requests of one client in the current and previous fixed
// windows. The previous count is weighted by how much of it still overlaps
// the sliding window ending now.
type window struct {
	start time.Time
	prev  int
	curr  int
}

func (w *window) take(now time.Time, size time.Duration, limit int) (remaining int, reset time.Time, ok bool) {
	switch elapsed := now.Sub(w.start); {
	case elapsed >= 2*size:
		w.start, w.prev, w.curr = now.Truncate(size), 0, 0
	case elapsed >= size:
		w.start, w.prev, w.curr = w.start.Add(size), w.curr, 0
	}

	weight := 1 - float64(now.Sub(w.start))/float64(size)
	used := float64(w.prev)*math.Max(weight, 0) + float64(w.curr)
	reset = w.start.Add(size)
	if used >= float64(limit) {
		return 0, reset, false
	}
	w.curr++
	return max(limit-int(math.Ceil(used))-1, 0), reset, true
}

type limiter struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	clients map[string]*window
}

func (l *limiter) take(key string, now time.Time) (int, time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.clients[key]
	if !ok {
		w = &window{start: now.Truncate(l.cfg.Window)}
		l.clients[key] = w
	}
	return w.take(now, l.cfg.Window, l.cfg.Max)
}

// sweep drops clients idle for two windows.
func (l *limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, w := range l.clients {
		if now.Sub(w.start) >= 2*l.cfg.Window {
			delete(l.clients, key)
		}
	}
}

// RateLimit rejects clients exceeding cfg.Max requests per cfg.Window with
// 429. Every response carries X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset. Idle clients are swept until ctx is done. A non-positive
// Max or Window disables limiting.
func RateLimit(ctx context.Context, cfg RateLimitConfig) Middleware {
	if cfg.Max <= 0 || cfg.Window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = ClientIP
	}
	l := &limiter{cfg: cfg, clients: make(map[string]*window)}

	go func() {
		ticker := time.NewTicker(2 * cfg.Window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				l.sweep(now)
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, reset, ok := l.take(cfg.KeyFunc(r), time.Now())

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Max))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			retry := max(time.Until(reset), 0)
			h.Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			h.Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)

			var e jx.Encoder
			e.ObjStart()
			e.FieldStart("code")
			e.Int(http.StatusTooManyRequests)
			e.FieldStart("message")
			e.Str("rate limit exceeded")
			e.ObjEnd()
			_, _ = w.Write(e.Bytes())
		})
	}
}

// ClientIP returns the first X-Forwarded-For hop, X-Real-IP, or the remote
// address host.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
