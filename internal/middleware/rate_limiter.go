package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/zayar/cashflow-pwa-sub000/internal/apierror"
)

// slidingWindow counts requests per client IP within a fixed-length window.
// Entries for IPs that stop sending are purged in the background.
type slidingWindow struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*windowBucket
}

type windowBucket struct {
	count int
	until time.Time
}

func newSlidingWindow(limit int, window time.Duration) *slidingWindow {
	sw := &slidingWindow{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*windowBucket),
	}
	go sw.purgeLoop()
	return sw
}

// allow records one request for ip and reports whether it is within the limit.
// The second return is when the current window closes.
func (sw *slidingWindow) allow(ip string) (bool, time.Time) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := time.Now()
	b, ok := sw.buckets[ip]
	if !ok || now.After(b.until) {
		b = &windowBucket{until: now.Add(sw.window)}
		sw.buckets[ip] = b
	}
	b.count++
	return b.count <= sw.limit, b.until
}

const purgeInterval = 5 * time.Minute

func (sw *slidingWindow) purgeLoop() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		sw.mu.Lock()
		purged := 0
		for ip, b := range sw.buckets {
			if now.After(b.until) {
				delete(sw.buckets, ip)
				purged++
			}
		}
		remaining := len(sw.buckets)
		sw.mu.Unlock()

		if purged > 0 {
			log.Debug().
				Int("purged", purged).
				Int("remaining", remaining).
				Msg("rate limiter buckets purged")
		}
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
// Brute-force protection on the only unauthenticated credential endpoint.
func LoginRateLimiter() gin.HandlerFunc {
	sw := newSlidingWindow(20, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := sw.allow(c.ClientIP()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many login attempts, retry in 1 minute"))
			return
		}
		c.Next()
	}
}

// RateLimiter returns a general-purpose per-IP limiter for the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	sw := newSlidingWindow(limit, window)
	return func(c *gin.Context) {
		ok, until := sw.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", until.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, retry shortly"))
			return
		}
		c.Next()
	}
}
