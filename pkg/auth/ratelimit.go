package auth

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/parlor-dev/parlor/pkg/api"
	"github.com/parlor-dev/parlor/pkg/observability"
	"github.com/parlor-dev/parlor/pkg/transport"
)

// RateLimiter is the process-wide admission gate. TryAcquire takes one
// permit without blocking; RetryAfter reports the suggested minimum wait
// for a rejected caller.
type RateLimiter interface {
	TryAcquire() bool
	RetryAfter() time.Duration
}

// TokenBucket is a thread-safe token-bucket RateLimiter shared across all
// requests regardless of origin or identity. It exists to keep the
// memory-hard password hashing path from becoming a denial-of-service
// amplifier, so it must run before any other pipeline stage.
type TokenBucket struct {
	limiter *rate.Limiter
}

// NewTokenBucket creates a limiter issuing perSecond permits per second
// with the given burst capacity.
func NewTokenBucket(perSecond float64, burst int) *TokenBucket {
	if burst < 1 {
		burst = 1
	}
	return &TokenBucket{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// TryAcquire attempts to take one permit. The underlying limiter is
// internally synchronized: two concurrent calls cannot both succeed when
// only one permit remains.
func (b *TokenBucket) TryAcquire() bool {
	return b.limiter.Allow()
}

// RetryAfter returns the time until one permit becomes available.
func (b *TokenBucket) RetryAfter() time.Duration {
	limit := b.limiter.Limit()
	if limit <= 0 {
		return time.Second
	}
	return time.Duration(float64(time.Second) / float64(limit))
}

// RateLimit returns the admission middleware: the first pipeline stage.
// Rejected requests get 429 with a Retry-After hint and no further stage
// runs, authentication included.
func RateLimit(l RateLimiter) transport.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.TryAcquire() {
				observability.RateLimitRejectedTotal.Inc()
				seconds := int(math.Ceil(l.RetryAfter().Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				transport.WriteError(w, api.NewRateLimitedError())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
