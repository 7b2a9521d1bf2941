package images

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter governs calls to the external photo provider. Admission requires
// both a token from the bucket (refilled at hourlyQuota/3600 tokens per
// second, capped at burst) and fewer than hourlyQuota admitted requests in the
// trailing hour. Callers that are refused get an immediate false; there is no
// waiting.
type RateLimiter struct {
	mu     sync.Mutex
	bucket *rate.Limiter
	quota  int
	log    []time.Time
	now    func() time.Time
	logger *zap.Logger
}

// NewRateLimiter creates a RateLimiter with the given hourly quota and burst
// ceiling. The bucket starts full.
func NewRateLimiter(hourlyQuota, burst int, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(float64(hourlyQuota)/3600.0), burst),
		quota:  hourlyQuota,
		now:    time.Now,
		logger: logger,
	}
}

// TryConsume reports whether one provider call is admitted right now. On
// admission it consumes a token and records the request timestamp.
func (r *RateLimiter) TryConsume() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.prune(now)

	if len(r.log) >= r.quota {
		r.logger.Warn("provider call refused: hourly quota exhausted",
			zap.Int("quota", r.quota),
			zap.Int("window_requests", len(r.log)),
		)
		return false
	}

	if !r.bucket.AllowN(now, 1) {
		r.logger.Warn("provider call refused: token bucket empty",
			zap.Int("window_requests", len(r.log)),
		)
		return false
	}

	r.log = append(r.log, now)
	return true
}

// prune drops request log entries older than one hour.
func (r *RateLimiter) prune(now time.Time) {
	cutoff := now.Add(-time.Hour)
	kept := r.log[:0]
	for _, t := range r.log {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	r.log = kept
}
