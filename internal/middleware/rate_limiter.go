package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"ebucks/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const purgeInterval = 5 * time.Minute

type rateEntry struct {
	count     int
	windowEnd time.Time
}

// RateLimiter is a fixed-window counter per client IP. Expired entries are
// dropped on the first request after each purge interval.
type RateLimiter struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	entries   map[string]*rateEntry
	lastPurge time.Time
	now       func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*rateEntry),
		now:     time.Now,
	}
}

// Allow counts one request for key and reports whether it is within the
// limit, plus when the current window ends.
func (l *RateLimiter) Allow(key string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPurge) >= purgeInterval {
		l.purge(now)
	}

	e, ok := l.entries[key]
	if !ok || now.After(e.windowEnd) {
		e = &rateEntry{windowEnd: now.Add(l.window)}
		l.entries[key] = e
	}
	e.count++
	return e.count <= l.limit, e.windowEnd
}

func (l *RateLimiter) purge(now time.Time) {
	purged := 0
	for k, e := range l.entries {
		if now.After(e.windowEnd) {
			delete(l.entries, k)
			purged++
		}
	}
	l.lastPurge = now
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.entries)).Msg("rate limiter purged")
	}
}

// Handler aborts with 429 once a client IP exceeds the limit.
func (l *RateLimiter) Handler(msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := l.Allow(c.ClientIP())
		if !ok {
			secs := int(time.Until(windowEnd).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// PINRateLimiter guards the PIN endpoints. Kiosk PINs are short, so the
// budget is small: 10 attempts per minute per IP.
func PINRateLimiter() gin.HandlerFunc {
	return NewRateLimiter(10, time.Minute).Handler("Too many PIN attempts. Try again in a minute.")
}
