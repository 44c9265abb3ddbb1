package http

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bluele/gcache"
	"golang.org/x/time/rate"
)

const limiterCacheSize = 1000

// ipRateLimiter hands out one token bucket per client address. Buckets of
// clients not seen for a day are evicted, as are the least recent ones once
// the cache is full.
type ipRateLimiter struct {
	cache gcache.Cache
	mu    sync.Mutex
	r     rate.Limit
	b     int
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	return &ipRateLimiter{
		cache: gcache.New(limiterCacheSize).LRU().Build(),
		r:     r,
		b:     b,
	}
}

func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	if v, err := i.cache.Get(ip); err == nil {
		return v.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(i.r, i.b)
	_ = i.cache.SetWithExpire(ip, limiter, 24*time.Hour)
	return limiter
}

// middleware rejects requests beyond the client's rate with 429.
func (i *ipRateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !i.getLimiter(clientIP(r)).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
