package httpapi

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/logging"
	"golang.org/x/time/rate"
)

// RateLimiterConfig configures the per-client limiter on the credential
// endpoints.
type RateLimiterConfig struct {
	PerMinute       int
	Burst           int
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig allows 30 attempts per minute with a burst of 10.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		PerMinute:       30,
		Burst:           10,
		CleanupInterval: 5 * time.Minute,
	}
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter throttles register and login attempts per client address.
type RateLimiter struct {
	limit  rate.Limit
	burst  int
	ttl    time.Duration
	logger logging.Logger

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRateLimiter starts a limiter with a background cleanup of idle clients.
// Call Stop when done.
func NewRateLimiter(cfg RateLimiterConfig, logger logging.Logger) *RateLimiter {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultRateLimiterConfig().CleanupInterval
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	rl := &RateLimiter{
		limit:    rate.Limit(float64(cfg.PerMinute) / 60.0),
		burst:    cfg.Burst,
		ttl:      cfg.CleanupInterval * 2,
		logger:   logger,
		limiters: make(map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}

	go rl.cleanupLoop(cfg.CleanupInterval)

	return rl
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Middleware rejects requests over the limit with 429 and Retry-After.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)

		if !rl.get(key).Allow() {
			rl.logger.Warn(r.Context(), "rate limit exceeded", "client", key, "path", r.URL.Path)
			w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfterSeconds()))
			writeFail(w, http.StatusTooManyRequests, common.MsgTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Len reports how many clients are tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = cl
	}
	cl.lastAccess = time.Now()
	return cl.limiter
}

func (rl *RateLimiter) retryAfterSeconds() int {
	if rl.limit <= 0 {
		return 60
	}
	sec := int(math.Ceil(1.0 / float64(rl.limit)))
	if sec < 1 {
		sec = 1
	}
	return sec
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > rl.ttl {
			delete(rl.limiters, key)
		}
	}
}

// clientKey is the remote host without the port. Forwarding headers are
// ignored since clients can set them freely.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
