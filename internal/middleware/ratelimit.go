package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/config"
)

// maxTrackedKeys caps the number of buckets held at once.
const maxTrackedKeys = 10000

// AnalyzeRateLimiter applies a token bucket per owner to the routes that call the
// generation service. Anonymous callers are keyed by client IP.
func AnalyzeRateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				return next(c)
			}
		}
	}

	buckets := newBucketSet(cfg, maxTrackedKeys, time.Now)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := UserIDFromContext(c)
			if key == "" {
				key = "ip:" + c.RealIP()
			}

			if !buckets.allow(key) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "analysis rate limit exceeded"})
			}

			return next(c)
		}
	}
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// bucketSet holds one limiter per key. A bucket idle for a full interval has
// refilled completely, so dropping it is indistinguishable from keeping it.
type bucketSet struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	every     rate.Limit
	burst     int
	idle      time.Duration
	maxKeys   int
	now       func() time.Time
	lastSweep time.Time
}

func newBucketSet(cfg config.RateLimitConfig, maxKeys int, now func() time.Time) *bucketSet {
	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}
	idle := perRequest * time.Duration(cfg.Requests)
	if idle < cfg.Interval {
		idle = cfg.Interval
	}
	return &bucketSet{
		buckets:   make(map[string]*bucket),
		every:     rate.Every(perRequest),
		burst:     cfg.Requests,
		idle:      idle,
		maxKeys:   maxKeys,
		now:       now,
		lastSweep: now(),
	}
}

func (s *bucketSet) allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= s.idle {
		s.sweep(now)
	}

	b, ok := s.buckets[key]
	if !ok {
		if len(s.buckets) >= s.maxKeys {
			s.sweep(now)
			if len(s.buckets) >= s.maxKeys {
				s.evictOldest()
			}
		}
		b = &bucket{limiter: rate.NewLimiter(s.every, s.burst)}
		s.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

func (s *bucketSet) sweep(now time.Time) {
	for key, b := range s.buckets {
		if now.Sub(b.lastSeen) >= s.idle {
			delete(s.buckets, key)
		}
	}
	s.lastSweep = now
}

func (s *bucketSet) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, b := range s.buckets {
		if oldestKey == "" || b.lastSeen.Before(oldest) {
			oldestKey, oldest = key, b.lastSeen
		}
	}
	delete(s.buckets, oldestKey)
}

func (s *bucketSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}
