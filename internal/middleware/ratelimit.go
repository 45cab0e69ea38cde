// Package middleware provides the HTTP middleware for the belnav server.
package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/belnav/belnav/internal/httputil"
)

// maxClients bounds the tracked-IP table so hostile traffic cannot grow it
// without limit.
const maxClients = 100_000

// RateLimiter applies a token-bucket limit per client IP.
type RateLimiter struct {
	clients map[string]*tokenBucket
	mu      sync.Mutex
	rate    float64
	burst   float64
}

// tokenBucket tracks the remaining allowance for one client. Tokens are
// fractional so short gaps between requests still refill.
type tokenBucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewRateLimiter creates a RateLimiter allowing ratePerSec requests with the
// given burst size. A background goroutine evicts idle clients until ctx is
// cancelled.
func NewRateLimiter(ctx context.Context, ratePerSec, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*tokenBucket),
		rate:    float64(ratePerSec),
		burst:   float64(burst),
	}
	go rl.evictLoop(ctx)

	return rl
}

// take consumes one token for ip, refilling first based on elapsed time.
func (rl *RateLimiter) take(ip string) (bool, string) {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.clients[ip]
	if !ok {
		if len(rl.clients) >= maxClients {
			return false, "too many clients"
		}

		b = &tokenBucket{tokens: rl.burst, lastSeen: now}
		rl.clients[ip] = b
	}

	b.tokens += now.Sub(b.lastSeen).Seconds() * rl.rate
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}

	b.lastSeen = now

	if b.tokens < 1 {
		return false, "rate limit exceeded"
	}

	b.tokens--

	return true, ""
}

// evictLoop drops clients that have been quiet long enough to refill anyway.
func (rl *RateLimiter) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	const idleFor = 10 * time.Minute

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for ip, b := range rl.clients {
				if now.Sub(b.lastSeen) > idleFor {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Handler returns Gin middleware enforcing the limit. Probe and metrics
// endpoints are never limited so orchestrators cannot lock themselves out.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.URL.Path {
		case "/healthz", "/readyz", "/metrics":
			c.Next()

			return
		}

		// c.ClientIP() is safe from X-Forwarded-For spoofing because
		// SetTrustedProxies(nil) in router.go disables proxy header trust.
		if ok, reason := rl.take(c.ClientIP()); !ok {
			httputil.RespondError(c, http.StatusTooManyRequests, "rate_limited", reason)

			return
		}

		c.Next()
	}
}
