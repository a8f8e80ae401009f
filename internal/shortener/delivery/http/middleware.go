package http

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"linker/pkg/problemdetails"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	limiterIdleTTL         = time.Hour
	retryAfterSeconds      = 60
)

type client struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a token bucket per client IP. A full bucket holds one
// minute of requests.
type RateLimiter struct {
	perMinute int
	every     rate.Limit

	mu      sync.Mutex
	clients map[string]*client

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter allows requestsPerMinute per client IP and starts evicting
// idle clients in the background. Call Stop to release it.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	perMinute := max(requestsPerMinute, 1)
	rl := &RateLimiter{
		perMinute: perMinute,
		every:     rate.Every(time.Minute / time.Duration(perMinute)),
		clients:   make(map[string]*client),
		stop:      make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// allow takes a token from the bucket of ip and reports what is left.
func (rl *RateLimiter) allow(ip string, now time.Time) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[ip]
	if !ok {
		c = &client{bucket: rate.NewLimiter(rl.every, rl.perMinute)}
		rl.clients[ip] = c
	}
	c.lastSeen = now

	if !c.bucket.AllowN(now, 1) {
		return false, 0
	}
	return true, int(c.bucket.TokensAt(now))
}

// Middleware rejects requests over the limit with 429 and reports the quota
// in X-RateLimit-* headers.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		allowed, remaining := rl.allow(clientIP(r), now)

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(rl.perMinute))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if allowed {
			next.ServeHTTP(w, r)
			return
		}

		h.Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(retryAfterSeconds*time.Second).Unix(), 10))
		h.Set("Retry-After", strconv.Itoa(retryAfterSeconds))
		writeProblem(w, problemdetails.New(
			http.StatusTooManyRequests,
			problemdetails.TypeRateLimitExceeded,
			"Rate Limit Exceeded",
			"Too many requests. Please try again later.",
		))
	})
}

// Size returns the number of tracked clients.
func (rl *RateLimiter) Size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

// Stop ends background eviction. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.evictIdle(now)
		}
	}
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, c := range rl.clients {
		if now.Sub(c.lastSeen) > limiterIdleTTL {
			delete(rl.clients, ip)
		}
	}
}

// CORS sets the cross-origin headers of the public API.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if allowedOrigin != "*" {
				w.Header().Add("Vary", "Origin")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoggerMiddleware logs one line per request once the response is written.
func LoggerMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("request served",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("remote_addr", r.RemoteAddr),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// clientIP returns the caller address without port. RealIP middleware, when
// mounted, has already replaced RemoteAddr with the forwarded address.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
