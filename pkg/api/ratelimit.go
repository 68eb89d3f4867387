// pkg/api/ratelimit.go
package api

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimiter - محدودیت نرخ جداگانه برای هر کلاینت.
// محدودکننده‌ی کلاینت‌های بی‌کار پس از idleTTL از حافظه پاک می‌شود.
type RateLimiter struct {
	mu      sync.Mutex
	clients *cache.Cache
	limit   rate.Limit
	burst   int
}

// NewRateLimiter returns nil when perSecond is not positive; a nil
// limiter allows everything.
func NewRateLimiter(perSecond float64, burst int, idleTTL time.Duration) *RateLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &RateLimiter{
		clients: cache.New(idleTTL, idleTTL/2),
		limit:   rate.Limit(perSecond),
		burst:   burst,
	}
}

// Allow reports whether client may make a request now.
func (rl *RateLimiter) Allow(client string) bool {
	if rl == nil {
		return true
	}

	rl.mu.Lock()
	var limiter *rate.Limiter
	if v, ok := rl.clients.Get(client); ok {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
	}
	// هر درخواست زمان انقضا را تمدید می‌کند
	rl.clients.SetDefault(client, limiter)
	rl.mu.Unlock()

	return limiter.Allow()
}

// Clients returns the number of tracked clients.
func (rl *RateLimiter) Clients() int {
	if rl == nil {
		return 0
	}
	return rl.clients.ItemCount()
}
