package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/heartmarshall/frenchreader-backend/internal/config"
	"github.com/heartmarshall/frenchreader-backend/pkg/ctxutil"
)

// RateLimiter implements per-client token bucket rate limiting. Buckets hold
// up to Burst tokens and refill at RequestsPerMin per minute.
type RateLimiter struct {
	buckets  sync.Map // map[string]*bucket
	capacity float64
	rate     float64 // tokens per second
	idleTTL  time.Duration
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// NewRateLimiter creates a rate limiter with background cleanup of idle
// buckets. Call Stop() on shutdown.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return newRateLimiter(cfg, time.Now)
}

func newRateLimiter(cfg config.RateLimitConfig, now func() time.Time) *RateLimiter {
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	rl := &RateLimiter{
		capacity: float64(burst),
		rate:     float64(cfg.RequestsPerMin) / 60.0,
		idleTTL:  2 * interval,
		now:      now,
		stop:     make(chan struct{}),
	}
	go rl.cleanup(interval)
	return rl
}

// Stop terminates the background cleanup goroutine. Safe to call twice.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Limit rejects requests from clients whose bucket is empty with 429 and a
// Retry-After hint.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := ctxutil.ClientIPFromCtx(r.Context())
		if key == "" {
			key = clientIP(r)
		}

		if wait, ok := rl.allow(key); !ok {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allow takes a token for key. When none is left it returns the time until
// the next one.
func (rl *RateLimiter) allow(key string) (time.Duration, bool) {
	now := rl.now()
	val, _ := rl.buckets.LoadOrStore(key, &bucket{tokens: rl.capacity, lastRefill: now})
	b := val.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens = math.Min(rl.capacity, b.tokens+now.Sub(b.lastRefill).Seconds()*rl.rate)
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return 0, true
	}
	if rl.rate <= 0 {
		return time.Minute, false
	}
	return time.Duration((1 - b.tokens) / rl.rate * float64(time.Second)), false
}

func (rl *RateLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evictIdle()
		}
	}
}

func (rl *RateLimiter) evictIdle() {
	now := rl.now()
	rl.buckets.Range(func(key, value any) bool {
		b := value.(*bucket)
		b.mu.Lock()
		idle := now.Sub(b.lastRefill)
		b.mu.Unlock()
		if idle > rl.idleTTL {
			rl.buckets.Delete(key)
		}
		return true
	})
}
