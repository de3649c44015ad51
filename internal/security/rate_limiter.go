package security

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per caller key. A caller may burst up
// to maxRequests and regains the full budget over one window.
type RateLimiter struct {
	visitors map[string]*visitor
	mutex    sync.Mutex

	limit   rate.Limit
	burst   int
	window  time.Duration
	cleanup time.Duration
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter allowing maxRequests per window.
// Call Stop to end the background cleanup.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	if maxRequests <= 0 {
		maxRequests = 100
	}
	if window <= 0 {
		window = time.Minute
	}

	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(maxRequests)),
		burst:    maxRequests,
		window:   window,
		cleanup:  5 * window,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow reports whether the caller still has budget and spends one token
func (rl *RateLimiter) Allow(key string) bool {
	now := rl.now()

	rl.mutex.Lock()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	rl.mutex.Unlock()

	return v.limiter.AllowN(now, 1)
}

// Window is the interval over which a drained budget refills
func (rl *RateLimiter) Window() time.Duration {
	return rl.window
}

// Stop ends the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evictIdle()
		case <-rl.stop:
			return
		}
	}
}

// evictIdle drops callers unseen for two windows; their buckets are full
// again by then.
func (rl *RateLimiter) evictIdle() {
	cutoff := rl.now().Add(-2 * rl.window)

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
		}
	}
}
